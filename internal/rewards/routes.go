package rewards

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the XP API routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/users/xp", func(r chi.Router) {
		r.Get("/", handleGetXP(svc))
		r.Post("/glossary", handleGlossaryXP(svc))
	})
}

func handleGetXP(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			userID = DefaultUserID
		}
		xp, err := svc.Store().GetXP(r.Context(), userID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(xp)
	}
}

type glossaryXPRequest struct {
	UserID   string `json:"user_id"`
	TermID   string `json:"term_id"`
	TermName string `json:"term_name"`
}

type glossaryXPResponse struct {
	Status   string `json:"status"`
	XPEarned int    `json:"xp_earned"`
	TotalXP  int    `json:"total_xp"`
}

// Status values returned by POST /api/users/xp/glossary.
const (
	StatusSuccess       = "success"
	StatusAlreadyViewed = "already_viewed"
)

func handleGlossaryXP(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req glossaryXPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.TermID == "" {
			http.Error(w, `{"error":"term_id is required"}`, http.StatusBadRequest)
			return
		}

		award, err := svc.RecordTermView(r.Context(), req.UserID, req.TermID, req.TermName)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		resp := glossaryXPResponse{Status: StatusAlreadyViewed, TotalXP: award.TotalXP}
		if award.Awarded {
			resp.Status = StatusSuccess
			resp.XPEarned = award.XPEarned
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
