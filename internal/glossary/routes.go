package glossary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/escape-plan/internal/rewards"
)

// ViewRecorder credits a user for opening a term.
type ViewRecorder interface {
	RecordTermView(ctx context.Context, userID, termID, termName string) (rewards.Award, error)
}

// SimilarFinder returns terms semantically close to a query.
type SimilarFinder interface {
	Similar(ctx context.Context, query string, n int) ([]Term, error)
}

// Deps are the optional collaborators of the glossary routes.
type Deps struct {
	Courses CourseResolver
	Views   ViewRecorder
	Similar SimilarFinder
	Logger  *zap.Logger
}

// listedTerm is a term annotated with the course it first appears in.
type listedTerm struct {
	Term
	Course string `json:"course"`
}

type termDetail struct {
	Term
	Course        string   `json:"course"`
	LinkedModules []string `json:"linked_modules,omitempty"`
}

// RegisterRoutes mounts the glossary API routes.
func RegisterRoutes(r chi.Router, svc *Service, deps Deps) {
	if deps.Courses == nil {
		deps.Courses = MappedCourses(nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	logger := deps.Logger.Named("glossary")

	r.Route("/api/glossary", func(r chi.Router) {
		r.Get("/", handleList(svc, deps.Courses))
		r.Get("/search", handleSearch(svc, deps.Courses))
		r.Get("/categories", handleCategories(svc))
		r.Get("/similar", handleSimilar(deps.Similar, deps.Courses, logger))
		r.Post("/highlight", handleHighlight(svc))
		r.Post("/click", handleClick(svc, deps.Views, logger))
		r.Get("/{id}", handleGetByID(svc, deps.Courses))
	})
}

func handleList(svc *Service, courses CourseResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Query:    r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
			Course:   r.URL.Query().Get("course"),
		}
		if filter.Category == AllCourses {
			filter.Category = ""
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		terms, err := svc.Store().List(r.Context(), filter)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		terms = FilterByCourse(terms, filter.Course, courses)

		writeJSON(w, withCourses(terms, courses))
	}
}

func handleSearch(svc *Service, courses CourseResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			http.Error(w, `{"error":"q is required"}`, http.StatusBadRequest)
			return
		}
		terms, err := svc.Store().Search(r.Context(), q)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, withCourses(terms, courses))
	}
}

func handleCategories(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := svc.Store().Categories(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if cats == nil {
			cats = []string{}
		}
		writeJSON(w, cats)
	}
}

func handleSimilar(similar SimilarFinder, courses CourseResolver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			http.Error(w, `{"error":"q is required"}`, http.StatusBadRequest)
			return
		}
		if similar == nil {
			writeJSON(w, []listedTerm{})
			return
		}
		n := 5
		if v := r.URL.Query().Get("n"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				n = parsed
			}
		}

		terms, err := similar.Similar(r.Context(), q, n)
		if err != nil {
			logger.Warn("similar terms lookup failed", zap.String("query", q), zap.Error(err))
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, withCourses(terms, courses))
	}
}

func handleGetByID(svc *Service, courses CourseResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		t, err := svc.Store().GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if t == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, termDetail{Term: *t, Course: courses(t.Term), LinkedModules: LinkedModules(*t)})
	}
}

type highlightRequest struct {
	Content string `json:"content"`
}

func handleHighlight(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req highlightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		res, err := svc.Highlight(r.Context(), req.Content)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if res.Annotations == nil {
			res.Annotations = []Annotation{}
		}
		writeJSON(w, res)
	}
}

type clickRequest struct {
	Key    string `json:"key"`
	UserID string `json:"user_id"`
}

type clickResponse struct {
	Term  Term           `json:"term"`
	Award *rewards.Award `json:"award,omitempty"`
}

func handleClick(svc *Service, views ViewRecorder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clickRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Key == "" {
			http.Error(w, `{"error":"key is required"}`, http.StatusBadRequest)
			return
		}

		t, err := svc.Resolve(r.Context(), req.Key)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error":"term not found"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		resp := clickResponse{Term: t}
		if views != nil {
			award, err := views.RecordTermView(r.Context(), req.UserID, t.ID, t.Term)
			if err != nil {
				logger.Warn("recording term view failed", zap.String("term_id", t.ID), zap.Error(err))
			} else {
				resp.Award = &award
			}
		}
		writeJSON(w, resp)
	}
}

func withCourses(terms []Term, courses CourseResolver) []listedTerm {
	out := make([]listedTerm, len(terms))
	for i, t := range terms {
		out[i] = listedTerm{Term: t, Course: courses(t.Term)}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
