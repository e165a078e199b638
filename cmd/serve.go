package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/escape-plan/internal/catalog"
	"github.com/ziadkadry99/escape-plan/internal/progress"
	"github.com/ziadkadry99/escape-plan/internal/server"
)

var (
	servePort int
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Seeds the catalog into the database and starts the REST API and the chat
WebSocket. When catalog_dir is set, edits to the catalog are picked up
without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if serveDev {
			cfg.Server.AllowAll = true
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := openApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stats, err := a.seed(ctx, a.holder.Get(), progress.Nop{})
		if err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAll,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
		}, logger)
		a.mount(srv)

		printBanner(cfg, stats)
		logger.Info("server starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.Int("records", stats.Total()),
			zap.Bool("reporting", a.reporter.Enabled()),
		)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Serve(ctx) })
		g.Go(func() error { return a.reporter.Run(ctx) })
		if cfg.CatalogDir != "" {
			w := catalog.NewWatcher(cfg.CatalogDir, a.holder, a.reseed, logger)
			g.Go(func() error { return w.Run(ctx) })
		}

		err = g.Wait()
		fmt.Fprintln(os.Stderr, "\nServer stopped.")
		return err
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
