package tools

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/escape-plan/internal/planner"
)

// RegisterRoutes mounts the tools catalog and the planner tool routes.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/tools", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/entity-builder", handleEntityBuilder())
		r.Post("/playbook", handlePlaybook())
		r.Get("/{id}", handleGetByID(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []Tool{}
		}
		writeJSON(w, list)
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if t == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, t)
	}
}

func handleEntityBuilder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in planner.EntityInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		rec, err := planner.RecommendEntity(in)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, rec)
	}
}

func handlePlaybook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p planner.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		pb, err := planner.GeneratePlaybook(p)
		if errors.Is(err, planner.ErrIncompleteProfile) {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, pb)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
