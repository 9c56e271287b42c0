package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/use-agent/seoaudit/artifact"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/report"
)

func newAuditCommand(cfg *config.Config) *cobra.Command {
	var (
		outPath    string
		recordPath string
		toStdout   bool
	)

	cmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Audit a page and write the Markdown report",
		Long: `Fetches the page, extracts its SEO signals and writes the report.

A page that cannot be fetched still produces a report explaining the failure.

Example:
  seoaudit audit https://example.com
  seoaudit audit https://example.com --record audit.json --out report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := audit.NewDefault(cfg.Audit).Run(cmd.Context(), args[0])

			if recordPath != "" {
				if err := artifact.WriteRecord(recordPath, rec); err != nil {
					return err
				}
				slog.Info("audit record written", "path", recordPath)
			}

			out := report.NewRenderer().Render(rec)
			if toStdout {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := artifact.WriteReport(outPath, out); err != nil {
				return err
			}
			slog.Info("report written", "path", outPath, "degraded", rec.Degraded())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", cfg.Output.ReportPath, "Markdown report file")
	cmd.Flags().StringVar(&recordPath, "record", cfg.Output.RecordPath, "also write the JSON audit record to this file")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the report to stdout instead of writing a file")
	return cmd
}
