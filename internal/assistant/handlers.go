package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/escape-plan/internal/courses"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/llm"
	"github.com/ziadkadry99/escape-plan/internal/tools"
)

const (
	maxRelatedTerms  = 5
	shownRelated     = 3
	similarSuggested = 3
	snippetLength    = 100
)

func (a *Assistant) handleStrategy(req Request) *Response {
	msg := strings.ToLower(req.Message)
	income := incomeType(req.Context)

	var s strategyReply
	switch {
	case strings.Contains(msg, "w-2") || strings.Contains(msg, "salary") || income == "w2":
		s = strategies["w2"]
	case strings.Contains(msg, "business") || strings.Contains(msg, "owner") || income == "business":
		s = strategies["business"]
	case strings.Contains(msg, "real estate") || strings.Contains(msg, "reps"):
		s = strategies["real_estate"]
	case strings.Contains(msg, "entity") || strings.Contains(msg, "structure"):
		s = strategies["entity"]
	default:
		s = strategies["general"]
	}
	return &Response{
		Response:         s.Text,
		ModuleUsed:       ModuleStrategy,
		RelatedTerms:     append([]string(nil), s.Terms...),
		SuggestedActions: append([]Action(nil), s.Actions...),
		CourseLinks:      append([]CourseLink(nil), s.Courses...),
	}
}

// incomeType reads context.user_profile.income_type.
func incomeType(ctx map[string]interface{}) string {
	profile, ok := ctx["user_profile"].(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := profile["income_type"].(string)
	return v
}

func (a *Assistant) handleGlossary(ctx context.Context, req Request) (*Response, error) {
	browse := []Action{{Type: "browse_glossary", Text: "Browse all glossary terms", Action: "glossary"}}

	term := ExtractTerm(strings.ToLower(req.Message))
	if term == "" {
		return &Response{
			Response: "I can help explain any tax or business term! Try asking something like 'What is REPS?' or " +
				"'Explain QSBS' and I'll provide the definition, plain English explanation, and real-world examples.",
			ModuleUsed:       ModuleGlossary,
			SuggestedActions: browse,
		}, nil
	}

	hits, err := a.deps.Glossary.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return &Response{
			Response:         a.suggestSimilar(ctx, term),
			ModuleUsed:       ModuleGlossary,
			SuggestedActions: browse,
			Confidence:       0.5,
		}, nil
	}

	best := glossary.BestMatch(hits, term)
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", best.Term)
	fmt.Fprintf(&b, "**Definition:** %s\n\n", best.Definition)
	if best.PlainEnglish != "" {
		fmt.Fprintf(&b, "**In Plain English:** %s\n\n", best.PlainEnglish)
	}
	if best.CaseStudy != "" {
		fmt.Fprintf(&b, "**Real-World Example:** %s\n\n", best.CaseStudy)
	}
	if best.KeyBenefit != "" {
		fmt.Fprintf(&b, "**Key Benefit:** %s\n\n", best.KeyBenefit)
	}
	if len(best.RelatedTerms) > 0 {
		fmt.Fprintf(&b, "**Related Terms:** %s", strings.Join(head(best.RelatedTerms, shownRelated), ", "))
	}

	links, err := a.coursesMentioning(ctx, best)
	if err != nil {
		return nil, err
	}

	return &Response{
		Response:     strings.TrimRight(b.String(), "\n"),
		ModuleUsed:   ModuleGlossary,
		RelatedTerms: head(best.RelatedTerms, maxRelatedTerms),
		CourseLinks:  links,
		SuggestedActions: []Action{
			{Type: "learn_more", Text: "Learn more about " + best.Term, Action: "glossary/" + best.ID},
			{Type: "award_xp", Text: "View term for XP", Action: "xp/glossary/" + best.ID},
		},
	}, nil
}

func (a *Assistant) suggestSimilar(ctx context.Context, term string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I couldn't find a specific definition for '%s', but let me suggest some related terms that might help:\n\n", term)

	var similar []glossary.Term
	if a.deps.Similar != nil {
		found, err := a.deps.Similar.Similar(ctx, term, similarSuggested)
		if err != nil {
			a.logger.Warn("similar terms lookup failed", zap.String("query", term), zap.Error(err))
		} else {
			similar = found
		}
	}
	if len(similar) == 0 {
		b.WriteString("Try asking about terms like REPS, QSBS, QOF, C-Corp, or MSO for comprehensive explanations.")
		return b.String()
	}
	for _, t := range similar {
		fmt.Fprintf(&b, "• **%s**: %s...\n", t.Term, snippet(t.Definition, snippetLength))
	}
	return strings.TrimRight(b.String(), "\n")
}

// coursesMentioning links the courses whose text names t. Terms are stored
// as "ABBR (Long Name)", so the abbreviation is tried when the full name
// is not found.
func (a *Assistant) coursesMentioning(ctx context.Context, t glossary.Term) ([]CourseLink, error) {
	if a.deps.Courses == nil {
		return nil, nil
	}
	names := []string{t.Term}
	if i := strings.Index(t.Term, " ("); i > 0 {
		names = append(names, t.Term[:i])
	}
	for _, name := range names {
		found, err := a.deps.Courses.Mentioning(ctx, name, 5)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			links := make([]CourseLink, len(found))
			for i, c := range found {
				links[i] = courseLink(c)
			}
			return links, nil
		}
	}
	return nil, nil
}

func (a *Assistant) handleCourse(ctx context.Context, req Request) (*Response, error) {
	msg := strings.ToLower(req.Message)

	all, err := a.deps.Courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := a.deps.Courses.Progress(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool)
	for _, p := range progress {
		if p.TotalLessons > 0 && p.CompletedLessons >= p.TotalLessons {
			completed[p.CourseID] = true
		}
	}

	switch {
	case containsAny(msg, "start", "begin", "first"):
		if c, ok := courseOfType(all, courses.TypePrimer); ok {
			var b strings.Builder
			b.WriteString("**Perfect place to start!**\n\n")
			fmt.Fprintf(&b, "I recommend beginning with **%s**. It covers the essential fundamentals you need to understand your tax situation.\n\n", c.Title)
			fmt.Fprintf(&b, "This course has %d lessons and takes about %d hours to complete. It's free and will give you the foundation for everything else!\n\n", c.TotalLessons, c.EstimatedHours)
			b.WriteString("After completing the Primer, we can discuss whether the W-2 or Business Owner track is better for your situation.")
			return &Response{
				Response:         b.String(),
				ModuleUsed:       ModuleCourse,
				CourseLinks:      []CourseLink{courseLink(c)},
				SuggestedActions: []Action{{Type: "start_course", Text: "Start the Primer", Action: "course/" + c.ID}},
			}, nil
		}
	case containsAny(msg, "w-2", "employee", "salary"):
		if c, ok := courseOfType(all, courses.TypeW2); ok {
			var b strings.Builder
			b.WriteString("**W-2 Escape Plan Course**\n\n")
			fmt.Fprintf(&b, "The **%s** is perfect for high-income employees who want to minimize taxes while keeping their job.\n\n", c.Title)
			fmt.Fprintf(&b, "This course covers %d advanced modules including:\n", c.TotalLessons)
			b.WriteString("• Real Estate Professional Status (REPS)\n" +
				"• Strategic depreciation and offset stacking\n" +
				"• Entity planning for W-2 earners\n" +
				"• Capital gains repositioning strategies\n\n")
			b.WriteString("**Pro tip:** Complete the Primer first if you haven't already!")
			return &Response{
				Response:     b.String(),
				ModuleUsed:   ModuleCourse,
				CourseLinks:  []CourseLink{courseLink(c)},
				RelatedTerms: []string{"REPS", "Depreciation Offset", "QOF", "W-2 Income"},
			}, nil
		}
	case containsAny(msg, "business", "owner", "entrepreneur"):
		if c, ok := courseOfType(all, courses.TypeBusiness); ok {
			var b strings.Builder
			b.WriteString("**Business Owner Escape Plan**\n\n")
			fmt.Fprintf(&b, "The **%s** is designed for business owners who want to optimize their entity structure and build wealth.\n\n", c.Title)
			b.WriteString("This comprehensive course covers:\n" +
				"• C-Corp vs S-Corp optimization\n" +
				"• MSO (Management Services Organization) strategies\n" +
				"• QSBS qualification for tax-free exits\n" +
				"• Advanced deduction stacking\n" +
				"• Estate planning and wealth protection\n\n")
			b.WriteString("Perfect for scaling businesses and exit planning!")
			return &Response{
				Response:     b.String(),
				ModuleUsed:   ModuleCourse,
				CourseLinks:  []CourseLink{courseLink(c)},
				RelatedTerms: []string{"C-Corp", "MSO", "QSBS", "Entity Planning"},
			}, nil
		}
	}

	var b strings.Builder
	b.WriteString("**Course Recommendations**\n\n")
	b.WriteString("I can help you find the perfect course! Here are your options:\n\n")
	links := make([]CourseLink, 0, len(all))
	for _, c := range all {
		status := "Available"
		if completed[c.ID] {
			status = "Completed"
		}
		fmt.Fprintf(&b, "**%s** (%s)\n%s\n• %d lessons • %d hours\n\n", c.Title, status, c.Description, c.TotalLessons, c.EstimatedHours)
		links = append(links, courseLink(c))
	}
	b.WriteString("Ask me 'Where should I start?' or tell me about your situation (W-2 employee vs business owner) for personalized recommendations!")
	return &Response{
		Response:         b.String(),
		ModuleUsed:       ModuleCourse,
		CourseLinks:      links,
		SuggestedActions: []Action{{Type: "recommendation", Text: "Where should I start?", Action: "recommend_course"}},
	}, nil
}

func courseOfType(all []courses.Course, t courses.Type) (courses.Course, bool) {
	for _, c := range all {
		if c.Type == t {
			return c, true
		}
	}
	return courses.Course{}, false
}

func (a *Assistant) handleTool(ctx context.Context, req Request) (*Response, error) {
	msg := strings.ToLower(req.Message)

	all, err := a.deps.Tools.List(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.Contains(msg, "escape plan") || hasWord(msg, map[string]bool{"build": true}):
		if t, ok := toolNamed(all, "escape plan"); ok {
			return &Response{
				Response: "**Build Your Escape Plan Tool**\n\n" +
					"This is our signature planning tool that creates a personalized tax strategy based on your specific situation.\n\n" +
					"**How it works:**\n" +
					"1. Input your income details (W-2, business, investments)\n" +
					"2. Answer questions about your goals and risk tolerance\n" +
					"3. Get a customized strategy stack with projected savings\n" +
					"4. See specific implementation steps and timelines\n\n" +
					"**What you'll get:**\n" +
					"• Personalized deduction opportunities\n" +
					"• Entity structure recommendations\n" +
					"• Tax savings projections\n" +
					"• Implementation roadmap\n\n" +
					"**Tip:** Have your tax return handy for the most accurate results!",
				ModuleUsed:       ModuleTool,
				SuggestedActions: []Action{{Type: "use_tool", Text: "Start Building Your Plan", Action: "tool/" + t.ID}},
				RelatedTerms:     []string{"Tax Planning", "Strategic Deductions", "Entity Planning"},
			}, nil
		}
	case containsAny(msg, "entity", "builder", "structure"):
		if t, ok := toolNamed(all, "entity"); ok {
			return &Response{
				Response: "**Entity Builder Tool**\n\n" +
					"This tool helps you determine the optimal business structure for your situation and goals.\n\n" +
					"**Entity options analyzed:**\n" +
					"• Sole Proprietorship vs LLC\n" +
					"• S-Corp vs C-Corp election\n" +
					"• MSO (Management Services Organization)\n" +
					"• Multi-entity structures\n\n" +
					"**Based on your inputs:**\n" +
					"• Current and projected income\n" +
					"• Business type and activities\n" +
					"• Growth and exit plans\n" +
					"• Tax optimization goals\n\n" +
					"**Results include:** Tax comparisons, implementation steps, and timeline for restructuring.",
				ModuleUsed:       ModuleTool,
				SuggestedActions: []Action{{Type: "use_tool", Text: "Analyze Entity Options", Action: "tool/" + t.ID}},
				RelatedTerms:     []string{"Entity Planning", "C-Corp", "S-Corp", "MSO"},
			}, nil
		}
	case containsAny(msg, "calculator", "tax"):
		if t, ok := toolNamed(all, "calculator"); ok {
			return &Response{
				Response: "**Tax Liability Calculator**\n\n" +
					"Calculate your current tax burden and see how different strategies would impact your bottom line.\n\n" +
					"**Features:**\n" +
					"• Current year tax calculation\n" +
					"• Strategy impact modeling\n" +
					"• Side-by-side comparisons\n" +
					"• Federal and state tax breakdown\n\n" +
					"**Great for:** Understanding your baseline before implementing strategies from the courses.",
				ModuleUsed:       ModuleTool,
				SuggestedActions: []Action{{Type: "use_tool", Text: "Calculate Tax Liability", Action: "tool/" + t.ID}},
			}, nil
		}
	}

	var b strings.Builder
	b.WriteString("**Available Tools**\n\n")
	b.WriteString("I can help you with any of our planning tools:\n\n")
	actions := make([]Action, 0, len(all))
	for _, t := range all {
		fmt.Fprintf(&b, "**%s**\n%s\n\n", t.Name, t.Description)
		actions = append(actions, Action{Type: "tool_help", Text: "Help with " + t.Name, Action: "tool/" + t.ID})
	}
	b.WriteString("Which tool would you like help with? I can explain how to use it and interpret the results!")
	return &Response{Response: b.String(), ModuleUsed: ModuleTool, SuggestedActions: actions}, nil
}

func toolNamed(all []tools.Tool, fragment string) (tools.Tool, bool) {
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Name), fragment) {
			return t, true
		}
	}
	return tools.Tool{}, false
}

func (a *Assistant) handleProgress(ctx context.Context, req Request) (*Response, error) {
	xp, err := a.deps.XP.GetXP(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	progress, err := a.deps.Courses.Progress(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	var done, started []courses.CourseProgress
	for _, p := range progress {
		switch {
		case p.TotalLessons > 0 && p.CompletedLessons >= p.TotalLessons:
			done = append(done, p)
		case p.CompletedLessons > 0:
			started = append(started, p)
		}
	}

	var b strings.Builder
	b.WriteString("**Your Progress Summary**\n\n")
	fmt.Fprintf(&b, "**XP Earned:** %d total points\n", xp.TotalXP)
	fmt.Fprintf(&b, "• Course/Quiz XP: %d\n", xp.QuizXP)
	fmt.Fprintf(&b, "• Glossary XP: %d\n", xp.GlossaryXP)
	fmt.Fprintf(&b, "• Unique terms viewed: %d\n\n", xp.TermsViewed)

	if len(done) > 0 {
		fmt.Fprintf(&b, "**Completed Courses (%d):**\n", len(done))
		for _, p := range done {
			fmt.Fprintf(&b, "• %s\n", p.CourseTitle)
		}
		b.WriteString("\n")
	}
	if len(started) > 0 {
		b.WriteString("**In Progress:**\n")
		for _, p := range started {
			fmt.Fprintf(&b, "• %s: %d/%d lessons (%d%%)\n", p.CourseTitle, p.CompletedLessons, p.TotalLessons, p.Percent)
		}
		b.WriteString("\n")
	}

	switch {
	case len(done) == 0 && len(started) == 0:
		b.WriteString("**Ready to start your journey?**\n")
		b.WriteString("I recommend beginning with the Primer course to build your foundation!")
	case len(done) == 0:
		b.WriteString("**Keep going!** You're making great progress. Complete your current courses to unlock advanced strategies.")
	default:
		b.WriteString("**Excellent work!** You've completed courses and earned valuable XP. Ready for advanced planning tools?")
	}

	return &Response{
		Response:   b.String(),
		ModuleUsed: ModuleProgress,
		SuggestedActions: []Action{
			{Type: "continue_course", Text: "Continue learning", Action: "courses"},
			{Type: "use_tools", Text: "Try planning tools", Action: "tools"},
		},
	}, nil
}

var greetings = map[string]bool{"hello": true, "hi": true, "hey": true, "start": true}

const systemPrompt = "You are Quinn, the assistant of the IRS Escape Plan learning platform. " +
	"Answer questions about tax strategy education briefly and in plain English. " +
	"Point learners to the glossary, the courses (Primer, W-2 Escape Plan, Business Owner Escape Plan) " +
	"and the planning tools where relevant. Do not give individualized legal or tax advice."

func (a *Assistant) handleGeneral(ctx context.Context, req Request) *Response {
	msg := strings.ToLower(req.Message)

	if hasWord(msg, greetings) {
		return &Response{
			Response: "**Hi there! I'm Quinn, your IRS Escape Plan assistant!**\n\n" +
				"I'm here to help you navigate the platform and maximize your tax savings. Here's what I can do:\n\n" +
				"**Strategy Advice:** Get personalized recommendations based on your income and goals\n" +
				"**Glossary Help:** Explain any tax term with real-world examples\n" +
				"**Course Guidance:** Find the right modules for your situation\n" +
				"**Tool Support:** Help you use our planning calculators and builders\n" +
				"**Progress Tracking:** Monitor your learning and implementation\n\n" +
				"**Try asking me:**\n" +
				"• 'What is REPS?' (glossary lookup)\n" +
				"• 'Where should I start?' (course recommendations)\n" +
				"• 'How do I reduce W-2 taxes?' (strategy advice)\n" +
				"• 'Help me use the Entity Builder' (tool assistance)\n\n" +
				"What would you like to explore first?",
			ModuleUsed: ModuleGeneral,
			SuggestedActions: []Action{
				{Type: "strategy", Text: "Get strategy advice", Action: "strategy_help"},
				{Type: "courses", Text: "Find courses", Action: "course_recommendations"},
				{Type: "glossary", Text: "Learn terms", Action: "glossary"},
				{Type: "tools", Text: "Use tools", Action: "tools"},
			},
		}
	}

	if strings.Contains(msg, "help") || strings.Contains(msg, "what can you do") {
		return &Response{
			Response: "**I'm Quinn - here's how I can help:**\n\n" +
				"**Strategy Assistant**\nAsk about tax strategies and I'll recommend approaches based on your income type and goals.\n\n" +
				"**Glossary Explainer**\nGet clear definitions, plain English explanations, and real-world examples for any tax term.\n\n" +
				"**Course Navigator**\nFind the right courses and modules for your learning path and track your progress.\n\n" +
				"**Tool Advisor**\nLearn how to use our planning tools and interpret the results.\n\n" +
				"**Progress Support**\nTrack your learning, XP, and implementation progress.\n\n" +
				"Just ask me anything! I understand context and can provide layered responses from simple to detailed.",
			ModuleUsed: ModuleGeneral,
			SuggestedActions: []Action{
				{Type: "example", Text: "Try: 'What is QSBS?'", Action: "glossary_example"},
				{Type: "example", Text: "Try: 'How do I start?'", Action: "course_example"},
			},
		}
	}

	if a.deps.LLM != nil {
		reply, err := llm.Chat(ctx, a.deps.LLM, systemPrompt, a.history(ctx, req.SessionID), req.Message)
		if err == nil {
			return &Response{Response: reply, ModuleUsed: ModuleGeneral, Confidence: 0.7}
		}
		a.logger.Warn("llm fallback failed", zap.String("provider", a.deps.LLM.Name()), zap.Error(err))
	}

	return &Response{
		Response: "I'm not sure how to help with that specific question, but I can assist you with:\n\n" +
			"• **Tax strategies** and planning advice\n" +
			"• **Glossary terms** and definitions\n" +
			"• **Course recommendations** and navigation\n" +
			"• **Tool guidance** and support\n" +
			"• **Progress tracking** and next steps\n\n" +
			"Try asking something like 'What is REPS?' or 'Where should I start learning?' and I'll provide detailed, helpful guidance!",
		ModuleUsed: ModuleGeneral,
		Confidence: 0.3,
		SuggestedActions: []Action{
			{Type: "help", Text: "See what I can do", Action: "help"},
			{Type: "start", Text: "Get started", Action: "getting_started"},
		},
	}
}

// hasWord reports whether any whitespace-separated word of s, stripped of
// punctuation, is in words.
func hasWord(s string, words map[string]bool) bool {
	for _, w := range strings.Fields(s) {
		if words[strings.Trim(w, ".,!?;:'\"")] {
			return true
		}
	}
	return false
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
