package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/use-agent/seoaudit/models"
)

// Recommended character ranges for the title and meta description.
const (
	TitleMinChars       = 50
	TitleMaxChars       = 60
	DescriptionMinChars = 120
	DescriptionMaxChars = 160
)

// Score is the overall grade of an audit.
type Score struct {
	Earned  int    `json:"earned"`
	Max     int    `json:"max"`
	Percent int    `json:"percent"`
	Letter  string `json:"letter"`
}

type check struct {
	weight int
	pass   func(r *models.AuditRecord) bool
}

var checks = []check{
	{10, func(r *models.AuditRecord) bool { return r.Title != models.Missing }},
	{10, func(r *models.AuditRecord) bool { return r.Description != models.Missing }},
	{8, func(r *models.AuditRecord) bool { return r.Headings.Count(1) == 1 }},
	{10, func(r *models.AuditRecord) bool { return r.ImageMissingAlt == 0 }},
	{10, func(r *models.AuditRecord) bool { return len(r.BrokenLinks) == 0 }},
	{6, func(r *models.AuditRecord) bool { return r.MobileFriendly }},
}

// Grade scores the record with weighted presence checks. Degraded and nil
// records always score F.
func Grade(r *models.AuditRecord) Score {
	s := Score{}
	for _, c := range checks {
		s.Max += c.weight
	}
	if r == nil || r.Degraded() {
		s.Letter = "F"
		return s
	}
	for _, c := range checks {
		if c.pass(r) {
			s.Earned += c.weight
		}
	}
	s.Percent = (s.Earned*100 + s.Max/2) / s.Max
	s.Letter = letter(s.Percent)
	return s
}

func letter(percent int) string {
	switch {
	case percent >= 90:
		return "A"
	case percent >= 80:
		return "B"
	case percent >= 70:
		return "C"
	case percent >= 60:
		return "D"
	default:
		return "F"
	}
}

// Recommendations lists the issues found in r, most important first. The
// list is empty for a clean page and nil for a degraded or nil record.
func Recommendations(r *models.AuditRecord) []string {
	if r == nil || r.Degraded() {
		return nil
	}
	recs := []string{}

	if r.Title == models.Missing {
		recs = append(recs, "Add a <title> element describing the page.")
	} else if msg := lengthAdvice("Title", r.Title, TitleMinChars, TitleMaxChars); msg != "" {
		recs = append(recs, msg)
	}

	if r.Description == models.Missing {
		recs = append(recs, "Add a meta description summarising the page.")
	} else if msg := lengthAdvice("Meta description", r.Description, DescriptionMinChars, DescriptionMaxChars); msg != "" {
		recs = append(recs, msg)
	}

	switch h1 := r.Headings.Count(1); {
	case h1 == 0:
		recs = append(recs, "Add exactly one H1 heading.")
	case h1 > 1:
		recs = append(recs, fmt.Sprintf("Use a single H1 heading (found %d).", h1))
	}

	if n := len(r.BrokenLinks); n > 0 {
		recs = append(recs, fmt.Sprintf("Fix or remove %d broken %s.", n, plural(n, "link", "links")))
	}
	if !r.MobileFriendly {
		recs = append(recs, `Add a <meta name="viewport"> tag so the page scales on mobile devices.`)
	}
	if n := r.ImageMissingAlt; n > 0 {
		recs = append(recs, fmt.Sprintf("Add alt text to %d %s.", n, plural(n, "image", "images")))
	}
	return recs
}

func lengthAdvice(field, text string, lo, hi int) string {
	n := utf8.RuneCountInString(text)
	switch {
	case n < lo:
		return fmt.Sprintf("%s is short (%d characters); aim for %d-%d.", field, n, lo, hi)
	case n > hi:
		return fmt.Sprintf("%s is long (%d characters); aim for %d-%d.", field, n, lo, hi)
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
