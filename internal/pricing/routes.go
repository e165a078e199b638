package pricing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Source returns the current pricing table. The catalog swaps it on reload.
type Source func() Table

// matrixRow is a feature with its per-plan inclusion flags keyed by plan id.
type matrixRow struct {
	Name     string          `json:"name"`
	Included map[string]bool `json:"included"`
}

type matrixCategory struct {
	Name     string      `json:"name"`
	Features []matrixRow `json:"features"`
}

type overview struct {
	Plans      []Plan           `json:"plans"`
	Categories []matrixCategory `json:"categories"`
}

type planDetail struct {
	Plan
	Categories []PlanCategory `json:"categories"`
}

// RegisterRoutes mounts the pricing API routes.
func RegisterRoutes(r chi.Router, source Source) {
	r.Route("/api/pricing", func(r chi.Router) {
		r.Get("/", handleOverview(source))
		r.Get("/plans/{id}", handlePlan(source))
	})
}

func handleOverview(source Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := source()
		out := overview{Plans: t.Plans, Categories: make([]matrixCategory, 0, len(t.Categories))}
		if out.Plans == nil {
			out.Plans = []Plan{}
		}
		for _, c := range t.Categories {
			mc := matrixCategory{Name: c.Name, Features: make([]matrixRow, 0, len(c.Features))}
			for _, f := range c.Features {
				row := matrixRow{Name: f.Name, Included: make(map[string]bool, len(t.Plans))}
				for _, p := range t.Plans {
					row.Included[p.ID] = f.Includes(p.ID)
				}
				mc.Features = append(mc.Features, row)
			}
			out.Categories = append(out.Categories, mc)
		}
		writeJSON(w, out)
	}
}

func handlePlan(source Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := source()
		p, ok := t.Plan(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, planDetail{Plan: p, Categories: t.Breakdown(p.ID)})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
