package pricing

import "fmt"

// Plan is one purchasable tier.
type Plan struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	OneTimePrice string `json:"one_time_price" yaml:"one_time_price"`
	MonthlyPrice string `json:"monthly_price" yaml:"monthly_price"`
	CTA          string `json:"cta" yaml:"cta"`
	Popular      bool   `json:"popular,omitempty" yaml:"popular"`
	Badge        string `json:"badge,omitempty" yaml:"badge"`
}

// Feature is a line in the comparison matrix. Plans lists the IDs of the
// plans that include it.
type Feature struct {
	Name  string   `json:"name" yaml:"name"`
	Plans []string `json:"plans" yaml:"plans"`
}

// Category groups features in the comparison matrix.
type Category struct {
	Name     string    `json:"name" yaml:"name"`
	Features []Feature `json:"features" yaml:"features"`
}

// Table is the full pricing catalog.
type Table struct {
	Plans      []Plan     `json:"plans" yaml:"plans"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// Validate checks that plan IDs are unique and every feature references a
// known plan.
func (t Table) Validate() error {
	ids := make(map[string]bool, len(t.Plans))
	for _, p := range t.Plans {
		if p.ID == "" {
			return fmt.Errorf("plan %q has no id", p.Name)
		}
		if ids[p.ID] {
			return fmt.Errorf("duplicate plan id %q", p.ID)
		}
		ids[p.ID] = true
	}
	for _, c := range t.Categories {
		for _, f := range c.Features {
			for _, id := range f.Plans {
				if !ids[id] {
					return fmt.Errorf("feature %q references unknown plan %q", f.Name, id)
				}
			}
		}
	}
	return nil
}

// Plan returns the plan with the given id.
func (t Table) Plan(id string) (Plan, bool) {
	for _, p := range t.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Includes reports whether plan includes feature f.
func (f Feature) Includes(planID string) bool {
	for _, id := range f.Plans {
		if id == planID {
			return true
		}
	}
	return false
}

// PlanCategory is a category narrowed to what one plan includes.
type PlanCategory struct {
	Name     string   `json:"name"`
	Included []string `json:"included"`
	Excluded []string `json:"excluded"`
}

// Breakdown splits every category into the features planID does and does
// not include, preserving catalog order.
func (t Table) Breakdown(planID string) []PlanCategory {
	out := make([]PlanCategory, 0, len(t.Categories))
	for _, c := range t.Categories {
		pc := PlanCategory{Name: c.Name, Included: []string{}, Excluded: []string{}}
		for _, f := range c.Features {
			if f.Includes(planID) {
				pc.Included = append(pc.Included, f.Name)
			} else {
				pc.Excluded = append(pc.Excluded, f.Name)
			}
		}
		out = append(out, pc)
	}
	return out
}
