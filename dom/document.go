// Package dom provides a typed, read-only view over a parsed HTML page.
//
// Parsing is tolerant: malformed or empty markup produces a document whose
// accessors report absence instead of failing.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	titleSel  = cascadia.MustCompile("title")
	metaSel   = cascadia.MustCompile("meta[name]")
	anchorSel = cascadia.MustCompile("a[href]")
	imageSel  = cascadia.MustCompile("img")

	headingSels = [...]cascadia.Selector{
		cascadia.MustCompile("h1"),
		cascadia.MustCompile("h2"),
		cascadia.MustCompile("h3"),
		cascadia.MustCompile("h4"),
		cascadia.MustCompile("h5"),
		cascadia.MustCompile("h6"),
	}
)

// Document wraps a parsed page.
type Document struct {
	doc *goquery.Document
}

// Image is one <img> element.
type Image struct {
	Src string
	Alt string

	// HasAlt is true when the alt attribute is present, even if empty.
	HasAlt bool
}

// Parse builds a Document from raw markup. It never fails.
func Parse(rawHTML string) *Document {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}
}

// Title returns the trimmed text of the first <title> element.
func (d *Document) Title() (string, bool) {
	sel := d.doc.FindMatcher(titleSel).First()
	if sel.Length() == 0 {
		return "", false
	}
	title := strings.TrimSpace(sel.Text())
	return title, title != ""
}

// Meta returns the trimmed content attribute of the first <meta> whose name
// matches (case-insensitively). A tag without content counts as absent.
func (d *Document) Meta(name string) (string, bool) {
	var (
		content string
		found   bool
	)
	d.doc.FindMatcher(metaSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("name", "")), name) {
			return true
		}
		if c, ok := s.Attr("content"); ok {
			content = strings.TrimSpace(c)
			found = content != ""
		}
		return false
	})
	return content, found
}

// HasMeta reports whether any <meta> with the given name exists, regardless
// of its content.
func (d *Document) HasMeta(name string) bool {
	found := false
	d.doc.FindMatcher(metaSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = strings.EqualFold(strings.TrimSpace(s.AttrOr("name", "")), name)
		return !found
	})
	return found
}

// HeadingCount returns how many <hN> elements exist for level 1-6.
func (d *Document) HeadingCount(level int) int {
	if level < 1 || level > len(headingSels) {
		return 0
	}
	return d.doc.FindMatcher(headingSels[level-1]).Length()
}

// Links returns the non-empty href values of every anchor in document order.
func (d *Document) Links() []string {
	var links []string
	d.doc.FindMatcher(anchorSel).Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href != "" {
			links = append(links, href)
		}
	})
	return links
}

// Images returns every <img> element in document order.
func (d *Document) Images() []Image {
	var images []Image
	d.doc.FindMatcher(imageSel).Each(func(_ int, s *goquery.Selection) {
		alt, hasAlt := s.Attr("alt")
		images = append(images, Image{
			Src:    s.AttrOr("src", ""),
			Alt:    alt,
			HasAlt: hasAlt,
		})
	})
	return images
}
