package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// checkLinks samples the first MaxLinks hrefs and returns those found broken,
// in document order. Relative and non-HTTP hrefs use up a slot but are never
// probed. Probes run one at a time with no retries.
//
// A probe that errors or times out counts as broken, so targets that block
// automated HEAD requests show up here too.
func (a *Auditor) checkLinks(ctx context.Context, logger *slog.Logger, hrefs []string) []string {
	broken := []string{}

	if len(hrefs) > a.cfg.MaxLinks {
		logger.Debug("limiting broken-link sample",
			"links_found", len(hrefs),
			"max_links", a.cfg.MaxLinks,
		)
		hrefs = hrefs[:a.cfg.MaxLinks]
	}

	checked := 0
	for _, href := range hrefs {
		if !isAbsoluteHTTP(href) {
			continue
		}
		checked++
		if a.isBroken(ctx, logger, href) {
			broken = append(broken, href)
		}
	}

	logger.Debug("broken-link sampling finished",
		"examined", len(hrefs),
		"probed", checked,
		"broken", len(broken),
	)
	return broken
}

// isBroken probes one link under its own timeout.
func (a *Auditor) isBroken(ctx context.Context, logger *slog.Logger, href string) bool {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.LinkTimeout)
	defer cancel()

	status, err := a.prober.Probe(ctx, href)
	if err != nil {
		logger.Debug("link probe failed", "link", href, "error", err)
		return true
	}
	if status >= http.StatusBadRequest {
		logger.Debug("link returned error status", "link", href, "status", status)
		return true
	}
	return false
}

func isAbsoluteHTTP(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
