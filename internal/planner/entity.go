package planner

import (
	"fmt"
	"math"
)

// MaxAnnualRevenue is the largest revenue the entity builder accepts. The
// savings estimate stays well inside int range up to it.
const MaxAnnualRevenue = 1e12

// EntityInput is the entity builder questionnaire.
type EntityInput struct {
	BusinessType     string   `json:"business_type"`
	AnnualRevenue    float64  `json:"annual_revenue"`
	NumberOfOwners   int      `json:"number_of_owners"`
	CurrentStructure string   `json:"current_structure"`
	PrimaryGoals     []string `json:"primary_goals"`
	State            string   `json:"state"`
	HasEmployees     bool     `json:"has_employees"`
	PlanningHorizon  string   `json:"planning_horizon"`
}

// EntityRecommendation is the entity builder's answer.
type EntityRecommendation struct {
	Entity           string   `json:"entity"`
	EstimatedSavings int      `json:"estimated_savings"`
	SavingsRate      float64  `json:"savings_rate"`
	Reasoning        []string `json:"reasoning"`
	NextSteps        []string `json:"next_steps"`
	TimeToImplement  string   `json:"time_to_implement"`
}

type entityTier struct {
	above     float64
	entity    string
	rate      float64
	reasoning []string
}

// entityTiers are checked top down; the first tier whose threshold the
// revenue exceeds wins. The last tier catches everything else.
var entityTiers = []entityTier{
	{
		above:  500000,
		entity: "C-Corp with MSO Structure",
		rate:   0.08,
		reasoning: []string{
			"High revenue qualifies for C-Corp tax benefits",
			"MSO structure enables income shifting strategies",
			"Better tax treatment for retained earnings",
			"Enhanced deduction opportunities",
		},
	},
	{
		above:  150000,
		entity: "S-Corp Election",
		rate:   0.05,
		reasoning: []string{
			"Self-employment tax savings on distributions",
			"Pass-through taxation benefits",
			"Reasonable salary requirements manageable",
			"Simplified compliance compared to C-Corp",
		},
	},
	{
		above:  50000,
		entity: "LLC with Tax Elections",
		rate:   0.03,
		reasoning: []string{
			"Operational flexibility with tax optimization",
			"Potential S-Corp election benefits",
			"Lower compliance costs",
			"Asset protection advantages",
		},
	},
	{
		above:  -1,
		entity: "Sole Proprietorship or Single-Member LLC",
		rate:   0.02,
		reasoning: []string{
			"Simplest structure for current revenue level",
			"Minimal compliance requirements",
			"Easy transition to more complex structures later",
			"Tax deduction opportunities available",
		},
	},
}

var entityNextSteps = []string{
	"Consult with tax professional for implementation",
	"Review state-specific requirements",
	"Prepare necessary formation documents",
	"Set up accounting systems for new structure",
}

// RecommendEntity picks a business structure from annual revenue.
func RecommendEntity(in EntityInput) (EntityRecommendation, error) {
	switch {
	case math.IsNaN(in.AnnualRevenue) || math.IsInf(in.AnnualRevenue, 0):
		return EntityRecommendation{}, fmt.Errorf("annual_revenue must be a finite number")
	case in.AnnualRevenue < 0:
		return EntityRecommendation{}, fmt.Errorf("annual_revenue must not be negative")
	case in.AnnualRevenue > MaxAnnualRevenue:
		return EntityRecommendation{}, fmt.Errorf("annual_revenue must not exceed %.0f", MaxAnnualRevenue)
	}
	tier := entityTiers[len(entityTiers)-1]
	for _, t := range entityTiers {
		if in.AnnualRevenue > t.above {
			tier = t
			break
		}
	}

	rec := EntityRecommendation{
		Entity:           tier.entity,
		EstimatedSavings: int(in.AnnualRevenue * tier.rate),
		SavingsRate:      tier.rate,
		Reasoning:        append([]string(nil), tier.reasoning...),
		NextSteps:        append([]string(nil), entityNextSteps...),
		TimeToImplement:  "2-4 weeks",
	}
	if in.NumberOfOwners > 1 {
		rec.NextSteps = append(rec.NextSteps, "Draft an operating or shareholder agreement covering all owners")
	}
	return rec, nil
}
