package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/escape-plan/internal/config"
	"github.com/ziadkadry99/escape-plan/internal/db"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/progress"
	"github.com/ziadkadry99/escape-plan/internal/render"
)

var (
	highlightHTML bool
	highlightJSON bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Mark glossary terms in a markdown or HTML file",
	Long: `Renders a markdown file (or reads HTML with --html), marks every glossary
term it mentions and prints the result. Use - to read from stdin. The
catalog is loaded into a scratch in-memory database, so no data directory
is needed.`,
	Args: cobra.ExactArgs(1),
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

		src, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		res, err := highlightSource(cmd, cfg, logger, src)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if highlightJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintln(out, res.HTML)
		fmt.Fprintf(cmd.ErrOrStderr(), "%d glossary terms marked\n", len(res.Annotations))
		return nil
	},
}

func highlightSource(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, src string) (glossary.Result, error) {
	database, err := db.OpenMemory()
	if err != nil {
		return glossary.Result{}, fmt.Errorf("opening scratch database: %w", err)
	}
	defer database.Close()

	a, err := newApp(cfg, database, logger)
	if err != nil {
		return glossary.Result{}, err
	}
	if _, err := a.seed(cmd.Context(), a.holder.Get(), progress.Nop{}); err != nil {
		return glossary.Result{}, fmt.Errorf("seeding catalog: %w", err)
	}

	content := src
	if !highlightHTML {
		if content, err = render.New().HTML(src); err != nil {
			return glossary.Result{}, fmt.Errorf("rendering markdown: %w", err)
		}
	}
	return a.glossary.Highlight(cmd.Context(), content)
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

func init() {
	highlightCmd.Flags().BoolVar(&highlightHTML, "html", false, "input is HTML, not markdown")
	highlightCmd.Flags().BoolVar(&highlightJSON, "json", false, "print the annotated HTML and annotations as JSON")
	rootCmd.AddCommand(highlightCmd)
}
