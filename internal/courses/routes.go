package courses

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LessonXP credits the XP of a completed lesson.
type LessonXP interface {
	AddLessonXP(ctx context.Context, userID string, xp int) error
}

const defaultUserID = "default_user"

// RegisterRoutes mounts the course and progress API routes. xp may be nil.
func RegisterRoutes(r chi.Router, store *Store, viewer *Viewer, xp LessonXP, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("courses")

	r.Route("/api/courses", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/{id}", handleGet(store))
		r.Get("/{id}/lessons", handleLessons(store))
		r.Get("/{id}/lessons/{lessonID}", handleLessonView(viewer))
		r.Post("/{id}/lessons/{lessonID}/complete", handleComplete(store, xp, logger))
	})
	r.Get("/api/users/progress", handleProgress(store))
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListCourses(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []Course{}
		}
		writeJSON(w, list)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetCourse(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if c == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, c)
	}
}

func handleLessons(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, err := store.GetCourse(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if c == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		lessons, err := store.ListLessons(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if lessons == nil {
			lessons = []Lesson{}
		}
		writeJSON(w, lessons)
	}
}

func handleLessonView(viewer *Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := viewer.View(r.Context(),
			chi.URLParam(r, "id"), chi.URLParam(r, "lessonID"), r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if view == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, view)
	}
}

type completeRequest struct {
	UserID string `json:"user_id"`
}

type completeResponse struct {
	Status   string `json:"status"`
	XPEarned int    `json:"xp_earned"`
}

func handleComplete(store *Store, xp LessonXP, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
		}
		if req.UserID == "" {
			req.UserID = defaultUserID
		}

		courseID, lessonID := chi.URLParam(r, "id"), chi.URLParam(r, "lessonID")
		lesson, err := store.GetLesson(r.Context(), courseID, lessonID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if lesson == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		fresh, err := store.MarkComplete(r.Context(), req.UserID, courseID, lessonID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		resp := completeResponse{Status: "already_completed"}
		if fresh {
			resp.Status = "completed"
			if xp != nil {
				if err := xp.AddLessonXP(r.Context(), req.UserID, lesson.XPAvailable); err != nil {
					logger.Warn("crediting lesson xp failed",
						zap.String("user_id", req.UserID), zap.String("lesson_id", lessonID), zap.Error(err))
				} else {
					resp.XPEarned = lesson.XPAvailable
				}
			}
		}
		writeJSON(w, resp)
	}
}

func handleProgress(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			userID = defaultUserID
		}
		progress, err := store.Progress(r.Context(), userID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if progress == nil {
			progress = []CourseProgress{}
		}
		writeJSON(w, progress)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
