package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/models"
	"github.com/use-agent/seoaudit/report"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP protocol; logs must stay on stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	s := server.NewMCPServer(
		"seoaudit",
		models.Version,
		server.WithToolCapabilities(false),
	)

	auditTool := mcp.NewTool("audit_page",
		mcp.WithDescription("Run an on-page SEO audit of a single URL: title, meta description, heading counts, a sample of broken links, viewport presence and image alt text coverage."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The absolute http(s) URL of the page to audit"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default, rendered report) or 'json' (raw audit record)"),
			mcp.Enum(models.FormatMarkdown, models.FormatJSON),
		),
	)

	s.AddTool(auditTool, handleAuditPage(audit.NewDefault(cfg.Audit), report.NewRenderer()))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleAuditPage(a *audit.Auditor, rd *report.Renderer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		format := request.GetString("format", models.FormatMarkdown)

		rec := a.Run(ctx, url)

		switch format {
		case models.FormatJSON:
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to encode record: %v", err)), nil
			}
			if rec.Degraded() {
				return mcp.NewToolResultError(string(data)), nil
			}
			return mcp.NewToolResultText(string(data)), nil
		case models.FormatMarkdown:
			return mcp.NewToolResultText(rd.Render(rec)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", format)), nil
		}
	}
}
