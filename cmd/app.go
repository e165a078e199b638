package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/escape-plan/data"
	"github.com/ziadkadry99/escape-plan/internal/assistant"
	"github.com/ziadkadry99/escape-plan/internal/catalog"
	"github.com/ziadkadry99/escape-plan/internal/config"
	"github.com/ziadkadry99/escape-plan/internal/courses"
	"github.com/ziadkadry99/escape-plan/internal/db"
	"github.com/ziadkadry99/escape-plan/internal/embeddings"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/llm"
	"github.com/ziadkadry99/escape-plan/internal/pricing"
	"github.com/ziadkadry99/escape-plan/internal/progress"
	"github.com/ziadkadry99/escape-plan/internal/render"
	"github.com/ziadkadry99/escape-plan/internal/rewards"
	"github.com/ziadkadry99/escape-plan/internal/semantic"
	"github.com/ziadkadry99/escape-plan/internal/server"
	"github.com/ziadkadry99/escape-plan/internal/tools"
)

// dbFile is the SQLite file name inside the data directory.
const dbFile = "escapeplan.db"

// app holds the stores and services shared by the commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *db.DB
	holder *catalog.Holder

	glossary *glossary.Service
	courses  *courses.Store
	tools    *tools.Store
	xp       *rewards.Store
	reporter *rewards.Reporter
	rewards  *rewards.Service
	viewer   *courses.Viewer
	similar  *semantic.Index
	quinn    *assistant.Assistant
}

// catalogFS returns the catalog directory from cfg, or the embedded catalog.
func catalogFS(cfg *config.Config) fs.FS {
	if cfg.CatalogDir != "" {
		return os.DirFS(cfg.CatalogDir)
	}
	return data.FS
}

// openApp opens the database under cfg.DataDir, loads the catalog and
// builds every service. The caller must call close.
func openApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a, err := newApp(cfg, database, logger)
	if err != nil {
		database.Close()
		return nil, err
	}
	return a, nil
}

// newApp builds the services on an open database.
func newApp(cfg *config.Config, database *db.DB, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := catalog.Load(catalogFS(cfg))
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	embedder, err := embeddings.New(string(cfg.Assistant.EmbeddingProvider), cfg.Assistant.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	provider, err := llm.NewProvider(string(cfg.Assistant.Provider), cfg.Assistant.Model, cfg.Assistant.RequestsPerMinute)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       database,
		holder:   catalog.NewHolder(c),
		glossary: glossary.NewService(glossary.NewStore(database)),
		courses:  courses.NewStore(database),
		tools:    tools.NewStore(database),
		xp:       rewards.NewStore(database),
	}

	a.reporter = rewards.NewReporter(rewards.ReporterConfig{
		URL:       cfg.Rewards.ReportURL,
		Timeout:   time.Duration(cfg.Rewards.ReportTimeout) * time.Second,
		QueueSize: cfg.Rewards.ReportQueue,
		PerSecond: cfg.Rewards.ReportPerSec,
	}, logger)
	a.rewards = rewards.NewService(a.xp, a.reporter, cfg.Rewards.GlossaryXP, logger)
	a.viewer = courses.NewViewer(a.courses, a.glossary, render.New(), a.holder)
	a.similar = semantic.NewIndex(a.glossary, embedder)

	a.quinn = assistant.New(assistant.NewStore(database), assistant.Deps{
		Glossary: a.glossary.Store(),
		Similar:  a.similar,
		Courses:  a.courses,
		Tools:    a.tools,
		XP:       a.xp,
		LLM:      provider,
		Logger:   logger,
	})
	return a, nil
}

func (a *app) close() error {
	return a.db.Close()
}

// seed writes c into the stores.
func (a *app) seed(ctx context.Context, c *catalog.Catalog, rep progress.Reporter) (catalog.SeedStats, error) {
	return catalog.Seed(ctx, c, catalog.Stores{
		Glossary: a.glossary.Store(),
		Courses:  a.courses,
		Tools:    a.tools,
	}, rep)
}

// reseed is the catalog watcher's reload hook.
func (a *app) reseed(ctx context.Context, c *catalog.Catalog) error {
	stats, err := a.seed(ctx, c, progress.Nop{})
	if err != nil {
		return err
	}
	a.logger.Info("catalog reseeded", zap.Int("records", stats.Total()))
	return nil
}

// dedupe deletes stored glossary terms that lose to a more complete term
// with the same normalised name and returns how many were removed.
func (a *app) dedupe(ctx context.Context) (int, error) {
	groups, err := a.glossary.RemoveDuplicates(ctx, false)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, g := range groups {
		for _, t := range g.Drop {
			a.logger.Info("removed duplicate term",
				zap.String("kept", g.Keep.ID),
				zap.String("removed", t.ID),
				zap.Int("kept_score", glossary.Completeness(g.Keep)),
				zap.Int("removed_score", glossary.Completeness(t)))
			removed++
		}
	}
	return removed, nil
}

// mount registers every feature route on srv. JSON endpoints go through
// the request timeout; the chat socket does not.
func (a *app) mount(srv *server.Server) {
	api := srv.API()

	glossary.RegisterRoutes(api, a.glossary, glossary.Deps{
		Courses: a.holder.CourseOf,
		Views:   a.rewards,
		Similar: a.similar,
		Logger:  a.logger,
	})
	rewards.RegisterRoutes(api, a.rewards)
	courses.RegisterRoutes(api, a.courses, a.viewer, a.xp, a.logger)
	tools.RegisterRoutes(api, a.tools)
	pricing.RegisterRoutes(api, a.holder.Pricing)
	assistant.RegisterRoutes(api, a.quinn)

	assistant.RegisterSocket(srv.Router(), a.quinn)
}
