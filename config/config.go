package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUserAgent is sent with the page fetch and every link probe.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Audit  AuditConfig
	Output OutputConfig
	Log    LogConfig
}

// ServerConfig controls the optional HTTP API.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// Gin modes accepted for ServerConfig.Mode.
var serverModes = []string{"debug", "release", "test"}

// AuthConfig controls API key authentication for the audit API.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of accepted keys. With none configured the API
	// is open even when Enabled is set.
	APIKeys []string
}

// AuditConfig controls the fetch/extract stage.
type AuditConfig struct {
	// FetchTimeout bounds the primary page GET.
	FetchTimeout time.Duration // default: 10s

	// LinkTimeout bounds each broken-link probe.
	LinkTimeout time.Duration // default: 5s

	// MaxLinks is how many anchors (in document order) are examined for
	// broken-link sampling. Anchors past this index are never probed.
	MaxLinks int // default: 20

	// SnippetChars is how many characters of raw markup are kept in the record.
	SnippetChars int // default: 1000

	// MaxBodyBytes caps how much of the response body is read.
	MaxBodyBytes int64 // default: 10 MiB

	UserAgent string
}

// OutputConfig controls where the CLI writes its artifacts.
type OutputConfig struct {
	// ReportPath is the Markdown report file.
	ReportPath string // default: "seo_audit_report.md"

	// RecordPath is the optional JSON Audit Record file. Empty disables it.
	RecordPath string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultAudit returns the audit settings used when nothing is overridden.
func DefaultAudit() AuditConfig {
	return AuditConfig{
		FetchTimeout: 10 * time.Second,
		LinkTimeout:  5 * time.Second,
		MaxLinks:     20,
		SnippetChars: 1000,
		MaxBodyBytes: 10 << 20,
		UserAgent:    DefaultUserAgent,
	}
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	def := DefaultAudit()
	return &Config{
		Server: ServerConfig{
			Host: envOr("SEOAUDIT_HOST", "0.0.0.0"),
			Port: envIntOr("SEOAUDIT_PORT", 8080),
			Mode: envOneOf("SEOAUDIT_MODE", "release", serverModes),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SEOAUDIT_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SEOAUDIT_API_KEYS", nil),
		},
		Audit: AuditConfig{
			FetchTimeout: envDurationOr("SEOAUDIT_FETCH_TIMEOUT", def.FetchTimeout),
			LinkTimeout:  envDurationOr("SEOAUDIT_LINK_TIMEOUT", def.LinkTimeout),
			MaxLinks:     envPositiveIntOr("SEOAUDIT_MAX_LINKS", def.MaxLinks),
			SnippetChars: envPositiveIntOr("SEOAUDIT_SNIPPET_CHARS", def.SnippetChars),
			MaxBodyBytes: int64(envPositiveIntOr("SEOAUDIT_MAX_BODY_BYTES", int(def.MaxBodyBytes))),
			UserAgent:    envOr("SEOAUDIT_USER_AGENT", def.UserAgent),
		},
		Output: OutputConfig{
			ReportPath: envOr("SEOAUDIT_REPORT_PATH", "seo_audit_report.md"),
			RecordPath: os.Getenv("SEOAUDIT_RECORD_PATH"),
		},
		Log: LogConfig{
			Level:  envOr("SEOAUDIT_LOG_LEVEL", "info"),
			Format: envOr("SEOAUDIT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// envOneOf returns the variable only when it is one of allowed.
func envOneOf(key, fallback string, allowed []string) string {
	v := strings.ToLower(envOr(key, fallback))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envPositiveIntOr(key string, fallback int) int {
	if i := envIntOr(key, fallback); i > 0 {
		return i
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
