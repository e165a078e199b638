package rewards

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) chi.Router {
	t.Helper()
	svc := NewService(setupTestStore(t), nil, 0, zap.NewNop())
	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	return r
}

func TestGlossaryXPEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	post := func() glossaryXPResponse {
		body := `{"user_id":"u1","term_id":"term-1","term_name":"REPS"}`
		req := httptest.NewRequest(http.MethodPost, "/api/users/xp/glossary", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp glossaryXPResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		return resp
	}

	first := post()
	assert.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, 10, first.XPEarned)
	assert.Equal(t, 10, first.TotalXP)

	second := post()
	assert.Equal(t, StatusAlreadyViewed, second.Status)
	assert.Zero(t, second.XPEarned)
	assert.Equal(t, 10, second.TotalXP)
}

func TestGlossaryXPEndpointValidation(t *testing.T) {
	r := setupTestRouter(t)

	for _, body := range []string{`not json`, `{"user_id":"u1"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/users/xp/glossary", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestGetXPEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/xp/glossary", strings.NewReader(`{"term_id":"t1"}`))
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/users/xp", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var xp UserXP
	require.NoError(t, json.NewDecoder(w.Body).Decode(&xp))
	assert.Equal(t, DefaultUserID, xp.UserID)
	assert.Equal(t, 10, xp.TotalXP)
	assert.Equal(t, 1, xp.TermsViewed)
}
