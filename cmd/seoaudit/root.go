package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/seoaudit/config"
)

// newRootCommand builds the seoaudit CLI. Configuration comes from SEOAUDIT_*
// environment variables; flags override the output paths only.
func newRootCommand() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:   "seoaudit",
		Short: "Single-page on-page SEO audit",
		Long: `seoaudit fetches one web page, checks its on-page SEO signals
(title, meta description, headings, a sample of links, viewport, image alt text)
and writes a Markdown report.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Reports may go to stdout, so CLI logs go to stderr.
			initLogger(cfg.Log, os.Stderr)
		},
	}

	root.AddCommand(newAuditCommand(cfg))
	root.AddCommand(newRenderCommand(cfg))
	root.AddCommand(newServeCommand(cfg))
	return root
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
