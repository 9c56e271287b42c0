// Package report renders an audit record as a Markdown report.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/use-agent/seoaudit/models"
)

// Renderer turns audit records into Markdown. It is safe for concurrent use.
type Renderer struct {
	conv *converter.Converter
}

// NewRenderer creates a Renderer. The converter is built once and reused.
func NewRenderer() *Renderer {
	return &Renderer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Render produces the report for r. Output depends only on r.
func (rd *Renderer) Render(r *models.AuditRecord) string {
	var b strings.Builder

	b.WriteString("# SEO Audit Report\n\n")
	if r == nil {
		b.WriteString("## Audit Failed\n\n")
		b.WriteString("Sorry, no audit record was produced, so there is nothing to report.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "**URL:** %s\n\n", r.URL)

	if r.Degraded() {
		rd.writeFailure(&b, r)
		return b.String()
	}

	rd.writeTitleAndDescription(&b, r)
	writeHeadings(&b, r)
	rd.writeBrokenLinks(&b, r)
	writeMobile(&b, r)
	writeImages(&b, r)
	writePageSpeed(&b, r)
	writeGrade(&b, r)
	writeRecommendations(&b, r)

	return b.String()
}

func (rd *Renderer) writeFailure(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Audit Failed\n\n")
	b.WriteString("Sorry, the page could not be fetched, so no SEO signals were collected.\n\n")
	fmt.Fprintf(b, "**Reason:** %s: %s\n", r.FetchError.Code, rd.text(r.FetchError.Message))
}

func (rd *Renderer) writeTitleAndDescription(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Title & Meta Description\n\n")
	fmt.Fprintf(b, "- **Title:** %s\n", rd.text(r.Title))
	fmt.Fprintf(b, "- **Meta Description:** %s\n\n", rd.text(r.Description))
}

func writeHeadings(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Heading Structure\n\n")
	b.WriteString("| Level | Count |\n")
	b.WriteString("| --- | --- |\n")
	for level := 1; level <= models.HeadingLevels; level++ {
		fmt.Fprintf(b, "| H%d | %d |\n", level, r.Headings.Count(level))
	}
	b.WriteString("\n")
	if r.Headings.Total() == 0 {
		b.WriteString("No headings found on the page.\n\n")
	}
}

func (rd *Renderer) writeBrokenLinks(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Broken Links\n\n")
	if len(r.BrokenLinks) == 0 {
		b.WriteString("None found.\n\n")
		return
	}
	for _, link := range r.BrokenLinks {
		fmt.Fprintf(b, "- %s\n", rd.text(link))
	}
	b.WriteString("\n")
}

func writeMobile(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Mobile Friendliness\n\n")
	if r.MobileFriendly {
		b.WriteString("Yes: a viewport meta tag is present.\n\n")
		return
	}
	b.WriteString("No: the page has no viewport meta tag.\n\n")
}

func writeImages(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Image Alt Text\n\n")
	if r.ImageTotal == 0 {
		b.WriteString("No images found on the page.\n\n")
		return
	}
	pct := float64(r.ImageMissingAlt) * 100 / float64(r.ImageTotal)
	fmt.Fprintf(b, "%d of %d images are missing alt text (%.1f%%).\n\n",
		r.ImageMissingAlt, r.ImageTotal, pct)
}

func writePageSpeed(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Page Speed\n\n")
	if r.PageSpeed <= 0 {
		b.WriteString("Not measured.\n\n")
		return
	}
	fmt.Fprintf(b, "The page was fetched in %.2f seconds.\n\n", r.PageSpeed)
}

func writeGrade(b *strings.Builder, r *models.AuditRecord) {
	s := Grade(r)
	b.WriteString("## Overall Grade\n\n")
	fmt.Fprintf(b, "**%s** (%d%%, %d of %d points)\n\n", s.Letter, s.Percent, s.Earned, s.Max)
}

func writeRecommendations(b *strings.Builder, r *models.AuditRecord) {
	b.WriteString("## Recommendations\n\n")
	recs := Recommendations(r)
	if len(recs) == 0 {
		b.WriteString("No issues found.\n")
		return
	}
	for _, rec := range recs {
		fmt.Fprintf(b, "- %s\n", escapeInline(rec))
	}
}

// text renders page-supplied text as inline Markdown, escaping anything the
// page could use to inject formatting.
func (rd *Renderer) text(s string) string {
	if s == "" {
		return ""
	}
	md, err := rd.conv.ConvertString("<p>" + html.EscapeString(s) + "</p>")
	if err != nil {
		return html.EscapeString(strings.Join(strings.Fields(s), " "))
	}
	return strings.Join(strings.Fields(md), " ")
}

// escapeInline keeps angle brackets in fixed recommendation text from being
// read as raw HTML.
func escapeInline(s string) string {
	return strings.NewReplacer("<", "`<", ">", ">`").Replace(s)
}
