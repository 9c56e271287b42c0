package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/use-agent/seoaudit/artifact"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/report"
)

func newRenderCommand(cfg *config.Config) *cobra.Command {
	var (
		outPath  string
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "render <record.json>",
		Short: "Render a saved audit record as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := artifact.ReadRecord(args[0])
			if err != nil {
				return err
			}

			out := report.NewRenderer().Render(rec)
			if toStdout {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := artifact.WriteReport(outPath, out); err != nil {
				return err
			}
			slog.Info("report written", "path", outPath, "record", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", cfg.Output.ReportPath, "Markdown report file")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the report to stdout instead of writing a file")
	return cmd
}
