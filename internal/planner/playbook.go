package planner

// Complexity grades a strategy or a whole profile.
type Complexity string

const (
	Beginner     Complexity = "Beginner"
	Intermediate Complexity = "Intermediate"
	Advanced     Complexity = "Advanced"
)

// Phase groups playbook strategies.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseDeduct  Phase = "deduct"
	PhaseProtect Phase = "protect"
	PhaseExit    Phase = "exit"
)

// Phases lists the playbook phases in presentation order.
var Phases = []Phase{PhaseSetup, PhaseDeduct, PhaseProtect, PhaseExit}

// Strategy is one playbook recommendation.
type Strategy struct {
	Title      string     `json:"title"`
	Summary    string     `json:"summary"`
	Complexity Complexity `json:"complexity"`
	Module     string     `json:"module"`
}

// ProfileSummary echoes the profile with its overall complexity.
type ProfileSummary struct {
	EntityType  EntityType  `json:"entity_type"`
	IncomeRange IncomeRange `json:"income_range"`
	Complexity  Complexity  `json:"complexity"`
	Score       int         `json:"score"`
}

// Playbook is the generated plan.
type Playbook struct {
	Profile         ProfileSummary       `json:"profile"`
	Strategies      map[Phase][]Strategy `json:"strategies"`
	TotalStrategies int                  `json:"total_strategies"`
}

// rule adds strategy to phase when applies holds for the profile.
type rule struct {
	phase    Phase
	applies  func(Profile) bool
	strategy func(Profile) Strategy
}

func fixed(s Strategy) func(Profile) Strategy {
	return func(Profile) Strategy { return s }
}

// rules are evaluated in order; order within a phase is preserved.
var rules = []rule{
	{
		phase:   PhaseSetup,
		applies: func(p Profile) bool { return p.ownsBusiness() && p.highIncome() },
		strategy: fixed(Strategy{
			Title:      "C-Corp MSO Structure",
			Summary:    "Implement Management Services Organization for optimal income capture at 21% corporate rate vs 37%+ personal rates.",
			Complexity: Advanced,
			Module:     "Business Module 1: Entity Structuring",
		}),
	},
	{
		phase:   PhaseSetup,
		applies: Profile.ownsBusiness,
		strategy: func(p Profile) Strategy {
			c := Intermediate
			if p.IncomeRange == IncomeOver1M {
				c = Advanced
			}
			return Strategy{
				Title:      "Entity Optimization",
				Summary:    "Restructure business entities for tax efficiency and deduction maximization.",
				Complexity: c,
				Module:     "Business Owner Escape Plan",
			}
		},
	},
	{
		phase:   PhaseSetup,
		applies: func(p Profile) bool { return p.RealEstate == RealEstateREPS },
		strategy: fixed(Strategy{
			Title:      "REPS Qualification Maintenance",
			Summary:    "Systematic documentation and hour tracking for Real Estate Professional Status to unlock unlimited deductions.",
			Complexity: Advanced,
			Module:     "W-2 Module 4: Qualifying for REPS",
		}),
	},
	{
		phase:   PhaseSetup,
		applies: func(p Profile) bool { return p.RealEstate == RealEstateRentals },
		strategy: fixed(Strategy{
			Title:      "REPS Qualification Strategy",
			Summary:    "Path to qualifying for Real Estate Professional Status using the 750-hour test and material participation.",
			Complexity: Intermediate,
			Module:     "W-2 Module 4: Qualifying for REPS",
		}),
	},
	{
		phase:   PhaseDeduct,
		applies: func(p Profile) bool { return p.RealEstate != RealEstateNone },
		strategy: fixed(Strategy{
			Title:      "Cost Segregation Analysis",
			Summary:    "Accelerate depreciation through cost segregation studies for immediate tax benefits.",
			Complexity: Intermediate,
			Module:     "Business Module 2: Strategic Deductions",
		}),
	},
	{
		phase:   PhaseDeduct,
		applies: func(p Profile) bool { return p.RealEstate == RealEstateRentals },
		strategy: fixed(Strategy{
			Title:      "STR Depreciation Strategy",
			Summary:    "Leverage Short-Term Rental depreciation for immediate W-2 income offset without REPS qualification.",
			Complexity: Beginner,
			Module:     "W-2 Module 6: Short-Term Rentals",
		}),
	},
	{
		phase:   PhaseDeduct,
		applies: Profile.highIncome,
		strategy: fixed(Strategy{
			Title:      "Oil & Gas IDC Strategy",
			Summary:    "Intangible Drilling Costs for immediate 100% deduction plus ongoing depletion benefits.",
			Complexity: Advanced,
			Module:     "W-2 Module 7: Oil & Gas Deductions",
		}),
	},
	{
		phase:   PhaseDeduct,
		applies: Profile.highIncome,
		strategy: fixed(Strategy{
			Title:      "Bonus Depreciation Stacking",
			Summary:    "Coordinate multiple depreciation strategies for maximum deduction acceleration.",
			Complexity: Advanced,
			Module:     "Business Module 2: Strategic Deductions",
		}),
	},
	{
		phase:   PhaseProtect,
		applies: func(p Profile) bool { return p.AssetProtection != ProtectionNone },
		strategy: fixed(Strategy{
			Title:      "Advanced Trust Multiplication",
			Summary:    "Multi-generational wealth transfer and estate tax optimization through sophisticated trust structures.",
			Complexity: Advanced,
			Module:     "Business Module 8: The Exit Plan",
		}),
	},
	{
		phase: PhaseProtect,
		applies: func(p Profile) bool {
			return p.AssetProtection != ProtectionNone && p.IncomeRange == IncomeOver1M
		},
		strategy: fixed(Strategy{
			Title:      "Split-Dollar Life Insurance",
			Summary:    "Tax-efficient wealth transfer and protection using loan-based premium funding.",
			Complexity: Advanced,
			Module:     "Business Module 6: Capital Gains Repositioning",
		}),
	},
	{
		phase:   PhaseExit,
		applies: func(p Profile) bool { return p.EstatePlanning != EstateNotYet && p.ownsBusiness() },
		strategy: fixed(Strategy{
			Title:      "QSBS Qualification",
			Summary:    "Qualify for $10M+ capital gains exclusion through Qualified Small Business Stock strategies.",
			Complexity: Advanced,
			Module:     "Business Module 3: Long-Term Wealth Creation",
		}),
	},
	{
		phase:   PhaseExit,
		applies: func(p Profile) bool { return p.EstatePlanning != EstateNotYet },
		strategy: fixed(Strategy{
			Title:      "QOF Strategy",
			Summary:    "Defer capital gains through Qualified Opportunity Fund investments with long-term benefits.",
			Complexity: Advanced,
			Module:     "W-2 Module 2: Income & Timing",
		}),
	},
	{
		phase:   PhaseExit,
		applies: func(p Profile) bool { return p.EstatePlanning != EstateNotYet },
		strategy: fixed(Strategy{
			Title:      "Charitable Remainder Trust",
			Summary:    "Tax-efficient exit strategy combining philanthropy with income generation and tax benefits.",
			Complexity: Advanced,
			Module:     "Business Module 8: The Exit Plan",
		}),
	},
	{
		phase:   PhaseExit,
		applies: Profile.highIncome,
		strategy: fixed(Strategy{
			Title:      "Wealth Multiplier Loop",
			Summary:    "Systematic reinvestment of tax savings into compounding wealth-building assets.",
			Complexity: Advanced,
			Module:     "W-2 Module 8: The Wealth Multiplier Loop",
		}),
	},
}

// GeneratePlaybook builds a playbook for p. Display labels are accepted for
// every answer.
func GeneratePlaybook(p Profile) (Playbook, error) {
	p, err := p.Normalize()
	if err != nil {
		return Playbook{}, err
	}

	pb := Playbook{Strategies: make(map[Phase][]Strategy, len(Phases))}
	for _, phase := range Phases {
		pb.Strategies[phase] = []Strategy{}
	}
	for _, r := range rules {
		if r.applies(p) {
			pb.Strategies[r.phase] = append(pb.Strategies[r.phase], r.strategy(p))
			pb.TotalStrategies++
		}
	}

	score := ComplexityScore(p)
	pb.Profile = ProfileSummary{
		EntityType:  p.EntityType,
		IncomeRange: p.IncomeRange,
		Complexity:  complexityFor(score),
		Score:       score,
	}
	return pb, nil
}

// ComplexityScore weighs a normalized profile; higher is more involved.
func ComplexityScore(p Profile) int {
	score := 0
	if p.ownsBusiness() {
		score += 2
	}
	switch p.IncomeRange {
	case IncomeOver1M:
		score += 3
	case Income500KTo1M:
		score += 2
	case Income200To500K:
		score++
	}
	switch p.RealEstate {
	case RealEstateREPS:
		score += 3
	case RealEstateRentals:
		score++
	}
	switch p.AssetProtection {
	case ProtectionExisting:
		score += 2
	case ProtectionInterested:
		score++
	}
	switch p.EstatePlanning {
	case EstateActive:
		score += 2
	case EstateSoon:
		score++
	}
	return score
}

func complexityFor(score int) Complexity {
	switch {
	case score >= 8:
		return Advanced
	case score >= 4:
		return Intermediate
	default:
		return Beginner
	}
}
