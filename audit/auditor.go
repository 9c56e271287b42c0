// Package audit runs the on-page SEO checklist against a single URL and
// produces a models.AuditRecord.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/dom"
	"github.com/use-agent/seoaudit/engine"
	"github.com/use-agent/seoaudit/models"
)

// Auditor fetches one page and extracts its signals. It holds no per-run
// state and may be reused.
type Auditor struct {
	fetcher engine.Fetcher
	prober  engine.Prober
	cfg     config.AuditConfig
}

// New creates an Auditor. Zero or negative limits in cfg fall back to the
// defaults from config.DefaultAudit.
func New(fetcher engine.Fetcher, prober engine.Prober, cfg config.AuditConfig) *Auditor {
	def := config.DefaultAudit()
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.LinkTimeout <= 0 {
		cfg.LinkTimeout = def.LinkTimeout
	}
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = def.MaxLinks
	}
	if cfg.SnippetChars <= 0 {
		cfg.SnippetChars = def.SnippetChars
	}
	return &Auditor{fetcher: fetcher, prober: prober, cfg: cfg}
}

// NewDefault wires an Auditor to a fresh HTTPEngine for both fetching and
// link probing.
func NewDefault(cfg config.AuditConfig) *Auditor {
	e := engine.NewHTTPEngine(cfg)
	return New(e, e, cfg)
}

// Run audits pageURL. It always returns a record: when the page cannot be
// fetched the record is degraded and carries the failure reason.
func (a *Auditor) Run(ctx context.Context, pageURL string) *models.AuditRecord {
	start := time.Now()
	logger := slog.With("url", pageURL)

	page, elapsed, err := a.fetch(ctx, pageURL)
	if err != nil {
		logger.Warn("page fetch failed, producing degraded record", "error", err)
		return models.NewDegradedRecord(pageURL, toDetail(err))
	}
	if !engine.IsHTMLContentType(page.ContentType) {
		logger.Warn("response is not declared as HTML, parsing anyway", "content_type", page.ContentType)
	}
	if page.Truncated {
		logger.Warn("response body truncated", "max_bytes", a.cfg.MaxBodyBytes)
	}

	doc := dom.Parse(page.HTML)
	rec := &models.AuditRecord{
		URL:            pageURL,
		Title:          orMissing(doc.Title()),
		Description:    orMissing(doc.Meta("description")),
		Headings:       countHeadings(doc),
		MobileFriendly: doc.HasMeta("viewport"),
		RawHTMLSnippet: snippet(page.HTML, a.cfg.SnippetChars),
		PageSpeed:      elapsed.Seconds(),
	}
	rec.ImageTotal, rec.ImageMissingAlt = countImages(doc)
	rec.BrokenLinks = a.checkLinks(ctx, logger, doc.Links())

	logger.Info("audit complete",
		slog.Group("results",
			slog.String("title", rec.Title),
			slog.Int("headings", rec.Headings.Total()),
			slog.Int("broken_links", len(rec.BrokenLinks)),
			slog.Bool("mobile_friendly", rec.MobileFriendly),
			slog.Int("images", rec.ImageTotal),
			slog.Int("images_missing_alt", rec.ImageMissingAlt),
			slog.Float64("page_speed", rec.PageSpeed),
		),
		"duration", time.Since(start),
	)
	return rec
}

// fetch validates the URL and performs the single bounded page GET. The
// returned duration covers the request and the body read.
func (a *Auditor) fetch(ctx context.Context, pageURL string) (*engine.FetchResult, time.Duration, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	res, err := a.fetcher.Fetch(ctx, &engine.FetchRequest{URL: pageURL})
	if err != nil {
		return nil, 0, err
	}
	return res, time.Since(start), nil
}

// validateURL accepts only absolute http(s) URLs with a host.
func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return models.NewAuditError(models.ErrCodeInvalidInput, "url is empty", nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return models.NewAuditError(models.ErrCodeInvalidInput, "url is malformed", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.NewAuditError(models.ErrCodeInvalidInput, "url must use http or https", nil)
	}
	if u.Host == "" {
		return models.NewAuditError(models.ErrCodeInvalidInput, "url has no host", nil)
	}
	return nil
}

// toDetail converts any fetch failure into the reason stored on the record.
func toDetail(err error) *models.ErrorDetail {
	var ae *models.AuditError
	if errors.As(err, &ae) {
		return ae.ToDetail()
	}
	return &models.ErrorDetail{Code: models.ErrCodeFetchFailed, Message: err.Error()}
}

func orMissing(v string, ok bool) string {
	if !ok {
		return models.Missing
	}
	return v
}

func countHeadings(doc *dom.Document) models.Headings {
	var h models.Headings
	for level := 1; level <= models.HeadingLevels; level++ {
		h[level-1] = doc.HeadingCount(level)
	}
	return h
}

func countImages(doc *dom.Document) (total, missingAlt int) {
	for _, img := range doc.Images() {
		total++
		if !img.HasAlt {
			missingAlt++
		}
	}
	return total, missingAlt
}

// snippet returns the first n characters of s without splitting a rune.
func snippet(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
