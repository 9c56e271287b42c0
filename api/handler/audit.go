package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/models"
	"github.com/use-agent/seoaudit/report"
)

// Audit returns a handler for POST /api/v1/audit.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Auditor.Run    → Audit Record          (records audit_ms)
//  3. Renderer.Render → Markdown report      (records render_ms, markdown only)
//  4. Fill Timing, return 200.
//
// A failed page fetch is not an API error: the response is still 200 with
// success=false, the degraded record and, for markdown, the failure report.
func Audit(a *audit.Auditor, rd *report.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.AuditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.AuditResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Audit ────────────────────────────────────────────────
		auditStart := time.Now()
		rec := a.Run(c.Request.Context(), req.URL)
		auditMs := time.Since(auditStart).Milliseconds()

		// ── 3. Render ───────────────────────────────────────────────
		var (
			rendered string
			renderMs int64
		)
		if req.Format == models.FormatMarkdown {
			renderStart := time.Now()
			rendered = rd.Render(rec)
			renderMs = time.Since(renderStart).Milliseconds()
		}

		// ── 4. Respond ──────────────────────────────────────────────
		c.JSON(http.StatusOK, models.AuditResponse{
			Success: !rec.Degraded(),
			Record:  rec,
			Report:  rendered,
			Error:   rec.FetchError,
			Timing: models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				AuditMs:  auditMs,
				RenderMs: renderMs,
			},
		})
	}
}
