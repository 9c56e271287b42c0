package models

// Report formats accepted by the audit endpoint and the MCP tool.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// AuditRequest is the payload for POST /api/v1/audit.
type AuditRequest struct {
	// URL is the page to audit. Required.
	URL string `json:"url" binding:"required"`

	// Format selects what the response carries besides the record.
	// "markdown" (default) adds the rendered report; "json" returns the
	// record only.
	Format string `json:"format,omitempty" binding:"omitempty,oneof=markdown json"`
}

// Defaults applies default values to unset fields.
func (r *AuditRequest) Defaults() {
	if r.Format == "" {
		r.Format = FormatMarkdown
	}
}
