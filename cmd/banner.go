package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ternarybob/banner"

	"github.com/ziadkadry99/escape-plan/internal/catalog"
	"github.com/ziadkadry99/escape-plan/internal/config"
)

// printBanner writes the startup banner to stderr.
func printBanner(cfg *config.Config, stats catalog.SeedStats) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888888  .d8888b.   .d8888b.        d8888 8888888b.  8888888888`,
		` 888        d88P  Y88b d88P  Y88b      d88888 888   Y88b 888`,
		` 8888888    "Y888b.    888            d88P888 888   d88P 8888888`,
		` 888           "Y88b.  888    888    d88P 888 8888888P"  888`,
		` 8888888888 "Y8888P"   "Y8888P"    d88P   888 888        8888888888`,
	}

	catalogSrc := "embedded"
	if cfg.CatalogDir != "" {
		catalogSrc = cfg.CatalogDir + " (watched)"
	}
	reporting := "disabled"
	if cfg.Rewards.ReportURL != "" {
		reporting = cfg.Rewards.ReportURL
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Tax strategy courses, glossary and XP%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvPad := 14
	kvLines := [][2]string{
		{"Version", Version},
		{"Port", strconv.Itoa(cfg.Server.Port)},
		{"Data dir", cfg.DataDir},
		{"Catalog", catalogSrc},
		{"Records", strconv.Itoa(stats.Total())},
		{"Assistant", string(cfg.Assistant.Provider)},
		{"XP reporting", reporting},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
}
