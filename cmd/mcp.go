package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/escape-plan/internal/mcp"
	"github.com/ziadkadry99/escape-plan/internal/progress"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing glossary lookup, highlighting, the course list and the playbook generator as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol, so logs stay on stderr.
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

		stats, err := a.seed(cmd.Context(), a.holder.Get(), progress.Nop{})
		if err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "escapeplan MCP server started on stdio (records=%d)\n", stats.Total())

		srv := mcpserver.NewServer(a.glossary, a.courses, a.holder.CourseOf)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
