package courses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziadkadry99/escape-plan/internal/db"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/render"
)

type fixture struct {
	db       *db.DB
	store    *Store
	glossary *glossary.Service
}

func setup(t *testing.T) fixture {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	store := NewStore(database)
	_, err = store.UpsertCourse(ctx, Course{ID: "w2", Title: "W-2 Escape Plan", Type: TypeW2, EstimatedHours: 6})
	require.NoError(t, err)
	_, err = store.UpsertCourse(ctx, Course{ID: "primer", Title: "The Primer", Type: TypePrimer, EstimatedHours: 2})
	require.NoError(t, err)

	content := strings.Join([]string{
		"## What You'll Learn",
		"- How REPS unlocks losses",
		"- The 750-Hour Test",
		"",
		"Qualifying for REPS requires Material Participation.",
		"",
		"```",
		"REPS in code stays plain",
		"```",
	}, "\n")
	_, err = store.UpsertLesson(ctx, Lesson{ID: "w2-8", CourseID: "w2", Title: "Module 8: REPS Activation", Content: content, OrderIndex: 7, DurationMinutes: 25, XPAvailable: 50})
	require.NoError(t, err)
	_, err = store.UpsertLesson(ctx, Lesson{ID: "w2-1", CourseID: "w2", Title: "Module 1: Mapping W-2 Income", OrderIndex: 0, XPAvailable: 25})
	require.NoError(t, err)

	gstore := glossary.NewStore(database)
	require.NoError(t, gstore.Upsert(ctx, glossary.Term{ID: "reps", Term: "REPS", Category: "Real Estate Tax"}))
	require.NoError(t, gstore.Upsert(ctx, glossary.Term{ID: "mp", Term: "Material Participation", Category: "Real Estate Tax"}))
	require.NoError(t, gstore.Upsert(ctx, glossary.Term{ID: "str", Term: "STR", Category: "Real Estate Tax"}))

	return fixture{db: database, store: store, glossary: glossary.NewService(gstore)}
}

type fakeContent struct{}

func (fakeContent) CaseStudy(t Type, idx int) CaseStudy {
	if t == TypeW2 && idx == 7 {
		return CaseStudy{Client: "Helen + Spouse", Strategy: "750-hour test and REPS activation", Result: "$38K depreciation unlock"}
	}
	return CaseStudy{Client: "Strategic Client"}
}

func (fakeContent) KeyTerms(t Type, idx int) []string {
	if t == TypeW2 && idx == 7 {
		return []string{"REPS", "STR", "Cost Segregation (Cost Seg)"}
	}
	return nil
}

func (fakeContent) SummaryRules() []render.SummaryRule {
	return []render.SummaryRule{{Keywords: []string{"REPS"}, Text: "REPS summary"}}
}

type fakeXP struct{ credited map[string]int }

func (f *fakeXP) AddLessonXP(_ context.Context, userID string, xp int) error {
	f.credited[userID] += xp
	return nil
}

func TestStoreCourses(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	list, err := f.store.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, TypePrimer, list[0].Type)
	assert.Equal(t, 2, list[1].TotalLessons)

	lessons, err := f.store.ListLessons(ctx, "w2")
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "w2-1", lessons[0].ID)

	missing, err := f.store.GetCourse(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = f.store.UpsertCourse(ctx, Course{Title: "Bad", Type: "vip"})
	assert.Error(t, err)
}

func TestStoreProgress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	fresh, err := f.store.MarkComplete(ctx, "u1", "w2", "w2-1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = f.store.MarkComplete(ctx, "u1", "w2", "w2-1")
	require.NoError(t, err)
	assert.False(t, fresh)

	progress, err := f.store.Progress(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, "primer", progress[0].CourseID)
	assert.Zero(t, progress[0].CompletedLessons)
	assert.Equal(t, 1, progress[1].CompletedLessons)
	assert.Equal(t, 50, progress[1].Percent)
	assert.NotNil(t, progress[1].LastCompletedAt)
}

func TestViewerView(t *testing.T) {
	f := setup(t)
	viewer := NewViewer(f.store, f.glossary, render.New(), fakeContent{})

	view, err := viewer.View(context.Background(), "w2", "w2-8", "u1")
	require.NoError(t, err)
	require.NotNil(t, view)

	assert.Equal(t, 8, view.ModuleNumber)
	assert.Equal(t, []string{"How REPS unlocks losses", "The 750-Hour Test"}, view.WhatYoullLearn)
	assert.Equal(t, "REPS summary", view.Summary)
	assert.Equal(t, "Helen + Spouse", view.CaseStudy.Client)

	// Cost Segregation is not in the glossary and is dropped.
	require.Len(t, view.KeyTerms, 2)
	assert.Equal(t, "reps", view.KeyTerms[0].ID)

	assert.Equal(t, 1, strings.Count(view.HTML, `data-term="reps"`))
	assert.Contains(t, view.HTML, `data-term="material participation"`)
	assert.Contains(t, view.HTML, "REPS in code stays plain")
	assert.Len(t, view.Annotations, 2)
	assert.False(t, view.Completed)

	missing, err := viewer.View(context.Background(), "w2", "nope", "")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRoutes(t *testing.T) {
	f := setup(t)
	xp := &fakeXP{credited: map[string]int{}}
	r := chi.NewRouter()
	RegisterRoutes(r, f.store, NewViewer(f.store, f.glossary, render.New(), nil), xp, zap.NewNop())

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}
	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return w
	}

	w := get("/api/courses")
	require.Equal(t, http.StatusOK, w.Code)
	var list []Course
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusOK, get("/api/courses/w2").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/courses/nope").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/courses/nope/lessons").Code)

	w = get("/api/courses/w2/lessons")
	require.Equal(t, http.StatusOK, w.Code)
	var lessons []Lesson
	require.NoError(t, json.NewDecoder(w.Body).Decode(&lessons))
	assert.Len(t, lessons, 2)

	w = get("/api/courses/w2/lessons/w2-8")
	require.Equal(t, http.StatusOK, w.Code)
	var view LessonView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Contains(t, view.HTML, "glossary-term")
	assert.Equal(t, http.StatusNotFound, get("/api/courses/w2/lessons/nope").Code)

	w = post("/api/courses/w2/lessons/w2-8/complete", `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var done completeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&done))
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, 50, done.XPEarned)

	w = post("/api/courses/w2/lessons/w2-8/complete", `{"user_id":"u1"}`)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&done))
	assert.Equal(t, "already_completed", done.Status)
	assert.Equal(t, 50, xp.credited["u1"])

	assert.Equal(t, http.StatusNotFound, post("/api/courses/w2/lessons/nope/complete", `{}`).Code)

	w = get("/api/users/progress?user_id=u1")
	require.Equal(t, http.StatusOK, w.Code)
	var progress []CourseProgress
	require.NoError(t, json.NewDecoder(w.Body).Decode(&progress))
	require.Len(t, progress, 2)
	assert.Equal(t, 1, progress[1].CompletedLessons)
}
