package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/escape-plan/internal/config"
	"github.com/ziadkadry99/escape-plan/internal/db"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/progress"
	"github.com/ziadkadry99/escape-plan/internal/server"
)

func setupApp(t *testing.T) (*app, http.Handler) {
	t.Helper()

	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	a, err := newApp(config.DefaultConfig(), database, nil)
	require.NoError(t, err)

	stats, err := a.seed(t.Context(), a.holder.Get(), progress.Nop{})
	require.NoError(t, err)
	require.Positive(t, stats.Terms)

	srv := server.New(server.Config{}, nil)
	a.mount(srv)
	return a, srv.Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMountedRoutes(t *testing.T) {
	_, h := setupApp(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{"GET", "/api/glossary", "", http.StatusOK},
		{"GET", "/api/glossary/search?q=REPS", "", http.StatusOK},
		{"GET", "/api/glossary/similar?q=rental+losses", "", http.StatusOK},
		{"GET", "/api/courses", "", http.StatusOK},
		{"GET", "/api/courses/w2/lessons/w2-1", "", http.StatusOK},
		{"GET", "/api/tools", "", http.StatusOK},
		{"GET", "/api/pricing", "", http.StatusOK},
		{"GET", "/api/users/xp", "", http.StatusOK},
		{"POST", "/api/quinn/chat", `{"message":"What is REPS?"}`, http.StatusOK},
		{"GET", "/api/quinn/sessions/nope/messages", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestGlossaryViewAwardsOnce(t *testing.T) {
	_, h := setupApp(t)
	body := `{"user_id":"u1","term_id":"reps-real-estate-professional-status","term_name":"REPS"}`

	var first, second struct {
		Status   string `json:"status"`
		XPEarned int    `json:"xp_earned"`
		TotalXP  int    `json:"total_xp"`
	}

	w := do(t, h, "POST", "/api/users/xp/glossary", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, "success", first.Status)
	assert.Equal(t, 10, first.XPEarned)

	w = do(t, h, "POST", "/api/users/xp/glossary", body)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, "already_viewed", second.Status)
	assert.Equal(t, 0, second.XPEarned)
	assert.Equal(t, first.TotalXP, second.TotalXP)
}

func TestReseedPicksUpCatalog(t *testing.T) {
	a, _ := setupApp(t)
	require.NoError(t, a.reseed(t.Context(), a.holder.Get()))

	terms, err := a.glossary.Store().List(t.Context(), glossary.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, terms, len(a.holder.Get().Terms))
}

func TestDedupeEmbeddedCatalog(t *testing.T) {
	a, _ := setupApp(t)

	removed, err := a.dedupe(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	terms, err := a.glossary.Store().All(t.Context())
	require.NoError(t, err)
	assert.Len(t, terms, len(a.holder.Get().Terms)-removed)
	assert.Empty(t, glossary.FindDuplicates(terms))

	removed, err = a.dedupe(t.Context())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestOpenAppCreatesDataDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")

	a, err := openApp(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.close())

	_, err = os.Stat(filepath.Join(cfg.DataDir, dbFile))
	assert.NoError(t, err)
}

func TestOpenAppBadCatalogDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.CatalogDir = t.TempDir()

	_, err := openApp(cfg, nil)
	assert.ErrorContains(t, err, "loading catalog")
}

func TestHighlightSource(t *testing.T) {
	c := &cobra.Command{}
	c.SetContext(t.Context())

	highlightHTML = false
	res, err := highlightSource(c, config.DefaultConfig(), nil, "# Plan\n\nLower your **AGI** before year end.\n")
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<h1")
	assert.Contains(t, res.HTML, `class="glossary-term"`)
	require.NotEmpty(t, res.Annotations)
	assert.Equal(t, "AGI", res.Annotations[0].Text)
}
