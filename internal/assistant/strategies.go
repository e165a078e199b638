package assistant

type strategyReply struct {
	Text    string
	Terms   []string
	Actions []Action
	Courses []CourseLink
}

var (
	w2Course       = CourseLink{Title: "W-2 Escape Plan", ID: "w2", Type: "course"}
	businessCourse = CourseLink{Title: "Business Owner Escape Plan", ID: "business", Type: "course"}
	primerCourse   = CourseLink{Title: "Primer", ID: "primer", Type: "course"}
)

// strategies are the canned strategy overviews keyed by audience.
var strategies = map[string]strategyReply{
	"w2": {
		Text: "**W-2 Tax Reduction Strategies**\n\n" +
			"As a W-2 employee, you have several powerful options:\n\n" +
			"**Real Estate Professional Status (REPS)**\n" +
			"Qualify for REPS to use rental property depreciation against your W-2 income\n\n" +
			"**Capital Gains Repositioning**\n" +
			"Use QOF investments to defer RSU and stock option gains\n\n" +
			"**Entity Planning**\n" +
			"Create side entities for consulting or business activities\n\n" +
			"**Strategic Deductions**\n" +
			"Maximize retirement contributions and HSA planning\n\n" +
			"Which area interests you most? I can provide detailed guidance on any of these strategies!",
		Terms: []string{"REPS", "QOF", "W-2 Income", "Capital Gains"},
		Actions: []Action{
			{Type: "learn_reps", Text: "Learn about REPS", Action: "glossary/reps-real-estate-professional-status"},
			{Type: "w2_course", Text: "Take W-2 course", Action: "course/w2"},
		},
		Courses: []CourseLink{w2Course},
	},
	"business": {
		Text: "**Business Owner Tax Strategies**\n\n" +
			"As a business owner, you have the most powerful tax optimization tools:\n\n" +
			"**Entity Optimization**\n" +
			"C-Corp vs S-Corp election and MSO structures for income shifting\n\n" +
			"**QSBS Planning**\n" +
			"Structure for up to $10M in tax-free business exit gains\n\n" +
			"**Strategic Deductions**\n" +
			"Bonus depreciation, cost segregation, and equipment purchases\n\n" +
			"**Asset Protection**\n" +
			"Trusts, split-dollar insurance, and wealth transfer strategies\n\n" +
			"**Exit Planning**\n" +
			"Installment sales, F-Reorgs, and succession planning\n\n" +
			"What's your current business structure and primary goal?",
		Terms: []string{"C-Corp", "QSBS", "MSO", "Entity Planning"},
		Actions: []Action{
			{Type: "entity_builder", Text: "Use Entity Builder", Action: "tool/entity-builder"},
			{Type: "business_course", Text: "Take Business course", Action: "course/business"},
		},
		Courses: []CourseLink{businessCourse},
	},
	"real_estate": {
		Text: "**Real Estate Tax Strategies**\n\n" +
			"Real estate offers some of the most powerful tax benefits:\n\n" +
			"**REPS Qualification**\n" +
			"Meet the 750-hour test to unlock unlimited depreciation offsets\n\n" +
			"**Cost Segregation**\n" +
			"Accelerate depreciation on commercial and high-value properties\n\n" +
			"**1031 Exchanges**\n" +
			"Defer capital gains by swapping like-kind properties\n\n" +
			"**Short-Term Rentals**\n" +
			"Enhanced depreciation benefits and material participation opportunities\n\n" +
			"**QOF Integration**\n" +
			"Combine real estate with Opportunity Zone investments\n\n" +
			"Are you currently a real estate investor or considering getting started?",
		Terms: []string{"REPS", "Cost Segregation", "1031 Exchange", "STR"},
		Actions: []Action{
			{Type: "learn_reps", Text: "Learn REPS qualification", Action: "glossary/reps-real-estate-professional-status"},
			{Type: "real_estate_module", Text: "Real estate modules", Action: "course/w2"},
		},
		Courses: []CourseLink{w2Course},
	},
	"entity": {
		Text: "**Entity Structure Planning**\n\n" +
			"Choosing the right business structure is crucial for tax optimization:\n\n" +
			"**C-Corporation**\n" +
			"21% corporate tax rate, QSBS qualification, retained earnings flexibility\n\n" +
			"**S-Corporation**\n" +
			"Pass-through taxation, payroll tax savings on distributions\n\n" +
			"**MSO Structures**\n" +
			"Management Services Organizations for income shifting\n\n" +
			"**LLC Options**\n" +
			"Flexibility with tax elections and operational simplicity\n\n" +
			"**Multi-Entity Strategies**\n" +
			"Coordinated structures for maximum optimization\n\n" +
			"What's your current annual income and business type? This helps determine the optimal structure.",
		Terms: []string{"C-Corp", "S-Corp", "MSO", "Entity Planning"},
		Actions: []Action{
			{Type: "entity_builder", Text: "Use Entity Builder tool", Action: "tool/entity-builder"},
			{Type: "entity_course", Text: "Learn entity planning", Action: "course/business"},
		},
		Courses: []CourseLink{businessCourse},
	},
	"general": {
		Text: "**Tax Strategy Overview**\n\n" +
			"Effective tax planning uses the 6 core levers:\n\n" +
			"**1. Entity Type** - Optimize your business structure\n" +
			"**2. Income Type** - Convert high-tax to low-tax income\n" +
			"**3. Timing** - Control when income and deductions hit\n" +
			"**4. Asset Location** - Strategic account placement\n" +
			"**5. Deduction Strategy** - Maximize legitimate write-offs\n" +
			"**6. Exit Planning** - Plan for wealth transfer and sales\n\n" +
			"To give you specific recommendations, I'd love to know:\n" +
			"• Are you primarily a W-2 employee or business owner?\n" +
			"• What's your approximate annual income?\n" +
			"• Do you have real estate investments?\n" +
			"• What are your main tax planning goals?\n\n" +
			"This helps me suggest the most impactful strategies for your situation!",
		Terms: []string{"Tax Planning", "Entity Planning", "Strategic Deductions"},
		Actions: []Action{
			{Type: "assessment", Text: "Take planning assessment", Action: "tool/build-escape-plan"},
			{Type: "courses", Text: "Browse courses", Action: "courses"},
		},
		Courses: []CourseLink{primerCourse},
	},
}
