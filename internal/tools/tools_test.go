package tools

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

	"github.com/ziadkadry99/escape-plan/internal/db"
	"github.com/ziadkadry99/escape-plan/internal/planner"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, Tool{
		ID: "entity-builder", Name: "Entity Builder", Description: "Pick a structure.",
		Config: map[string]interface{}{"endpoint": "/api/tools/entity-builder"},
	}))
	require.NoError(t, store.Upsert(ctx, Tool{ID: "playbook", Name: "AI Playbook Generator", Premium: true}))
	return store
}

func TestStore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AI Playbook Generator", list[0].Name)
	assert.True(t, list[0].Premium)
	assert.Equal(t, "planner", list[0].Type)

	got, err := store.GetByID(ctx, "entity-builder")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/api/tools/entity-builder", got.Config["endpoint"])

	missing, err := store.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, store.Upsert(ctx, Tool{Name: "no id"}))
}

func TestRoutes(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, setupTestStore(t))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	w := do(http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []Tool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/tools/playbook", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/tools/invalid-id", "").Code)

	w = do(http.MethodPost, "/api/tools/entity-builder", `{"annual_revenue": 250000}`)
	require.Equal(t, http.StatusOK, w.Code)
	var rec planner.EntityRecommendation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	assert.Equal(t, "S-Corp Election", rec.Entity)
	assert.Equal(t, 12500, rec.EstimatedSavings)

	w = do(http.MethodPost, "/api/tools/playbook", `{"entity_type":"W-2 Earner"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(http.MethodPost, "/api/tools/playbook",
		`{"entity_type":"w2_earner","income_range":"500k_1m","real_estate":"none","asset_protection":"none","estate_planning":"soon"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var pb planner.Playbook
	require.NoError(t, json.NewDecoder(w.Body).Decode(&pb))
	assert.Equal(t, planner.Beginner, pb.Profile.Complexity)
	assert.Len(t, pb.Strategies[planner.PhaseExit], 3)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/api/tools/entity-builder", `nope`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/api/tools/entity-builder", `{"annual_revenue": 1e300}`).Code)
}
