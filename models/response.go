package models

// Version is reported by the health endpoint and the MCP server.
const Version = "0.1.0"

// AuditResponse is the response for POST /api/v1/audit.
type AuditResponse struct {
	// Success is false when the primary fetch failed and the record is degraded.
	Success bool `json:"success"`

	// Record is the extracted Audit Record (degraded on fetch failure).
	Record *AuditRecord `json:"record,omitempty"`

	// Report is the rendered Markdown report, present for format "markdown".
	Report string `json:"report,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// AuditMs is the time spent fetching, parsing and probing links.
	AuditMs int64 `json:"audit_ms"`

	// RenderMs is the time spent rendering the report.
	RenderMs int64 `json:"render_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
