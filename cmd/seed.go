package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/escape-plan/internal/progress"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the catalog into the database",
	Long:  `Upserts every glossary term, course, lesson and tool from the catalog into the database. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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

		stats, err := a.seed(cmd.Context(), a.holder.Get(), progress.NewReporter())
		if err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
		logger.Info("catalog seeded",
			zap.Int("terms", stats.Terms),
			zap.Int("courses", stats.Courses),
			zap.Int("lessons", stats.Lessons),
			zap.Int("tools", stats.Tools))

		if seedDedupe {
			removed, err := a.dedupe(cmd.Context())
			if err != nil {
				return fmt.Errorf("removing duplicate terms: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Removed %d duplicate terms\n", removed)
		}
		return nil
	},
}

var seedDedupe bool

func init() {
	seedCmd.Flags().BoolVar(&seedDedupe, "dedupe", false, "remove glossary terms that duplicate a more complete term")
	rootCmd.AddCommand(seedCmd)
}
