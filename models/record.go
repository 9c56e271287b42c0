package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Missing is the sentinel stored in text fields the page does not provide.
const Missing = "Missing"

// HeadingLevels is the number of HTML heading levels (h1..h6).
const HeadingLevels = 6

// AuditRecord is the flat set of on-page SEO signals extracted from one page.
//
// JSON field names are part of the artifact contract with downstream
// renderers and must not change.
type AuditRecord struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Headings        Headings `json:"headings"`
	BrokenLinks     []string `json:"broken_links"`
	MobileFriendly  bool     `json:"mobile_friendly"`
	ImageTotal      int      `json:"image_total"`
	ImageMissingAlt int      `json:"image_missing_alt"`
	RawHTMLSnippet  string   `json:"raw_html_snippet"`

	// PageSpeed is the page fetch time in seconds. Zero when not measured.
	PageSpeed float64 `json:"page_speed,omitempty"`

	// FetchError is set only on degraded records produced after the primary
	// fetch failed.
	FetchError *ErrorDetail `json:"fetch_error,omitempty"`
}

// NewDegradedRecord builds the record returned when the page could not be
// fetched. Every body-derived field is absent or zero.
func NewDegradedRecord(url string, reason *ErrorDetail) *AuditRecord {
	return &AuditRecord{
		URL:         url,
		Title:       Missing,
		Description: Missing,
		BrokenLinks: []string{},
		FetchError:  reason,
	}
}

// Degraded reports whether the record was produced without a page body.
func (r *AuditRecord) Degraded() bool {
	return r.FetchError != nil
}

// Headings counts heading elements per level. Index 0 holds h1.
type Headings [HeadingLevels]int

// Count returns the number of headings at level (1-6); other levels are 0.
func (h Headings) Count(level int) int {
	if level < 1 || level > HeadingLevels {
		return 0
	}
	return h[level-1]
}

// Total returns the number of headings across all levels.
func (h Headings) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// MarshalJSON writes the counts as {"h1":n,...,"h6":n} in level order.
func (h Headings) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range h {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `"h%d":%d`, i+1, c)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON accepts an object keyed "h1".."h6" (or "1".."6").
// Unknown keys are ignored.
func (h *Headings) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("headings: %w", err)
	}
	*h = Headings{}
	for k, v := range raw {
		level, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(k), "h"))
		if err != nil || level < 1 || level > HeadingLevels {
			continue
		}
		h[level-1] = v
	}
	return nil
}
