package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Chapter segmentation engine for uploaded manuscripts",
	Long: `Inkwell recovers book structure from manuscripts that carry no
reliable structural metadata.

Uploaded PDF, DOCX, and plain-text files pass through format-specific
text extraction, normalization, and a cascade of chapter-detection
strategies: explicit headings first, then page-break inference, then a
word-count split as the last resort. Parsed books are stored in SQLite
and can be corrected afterward with merge and split operations.`,
	Version: buildVersion(),
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.inkwell/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	// Structured JSON logging before any command runs.
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}
}
