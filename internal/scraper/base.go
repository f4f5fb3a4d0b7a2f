package scraper

import (
	"io"
	"strings"

	"sjsage522/jobworker/helpers"
	"sjsage522/jobworker/logger"

	apperr "sjsage522/jobworker/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// NewDocument creates a goquery document from a reader
func NewDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperr.NewExtraction("", "failed to parse HTML document", err)
	}
	return doc, nil
}

// baseAdapter provides common functionality for all source adapters
type baseAdapter struct {
	source  Source
	baseURL string
	log     *logger.Logger
}

func newBaseAdapter(source Source, baseURL string) baseAdapter {
	return baseAdapter{
		source:  source,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.ForSource(string(source)),
	}
}

// Source returns the site identifier
func (b *baseAdapter) Source() Source {
	return b.source
}

// BuildDetailRequest builds a plain detail-page request. Sources that
// need request headers or cookies on every fetch override this.
func (b *baseAdapter) BuildDetailRequest(url string) *helpers.Request {
	return &helpers.Request{URL: url}
}

// resolveURL resolves a possibly relative href against the base URL
func (b *baseAdapter) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return b.baseURL + href
	}
	return href
}

// firstText returns the cleaned text of the first element matching
// the selector, or "" when nothing matches
func firstText(s *goquery.Selection, selector string) string {
	sel := s.Find(selector)
	if sel.Length() == 0 {
		return ""
	}
	return helpers.CleanText(sel.First().Text())
}

// firstAttr returns a trimmed attribute of the first element matching
// the selector, or "" when nothing matches
func firstAttr(s *goquery.Selection, selector, attr string) string {
	sel := s.Find(selector)
	if sel.Length() == 0 {
		return ""
	}
	value, _ := sel.First().Attr(attr)
	return strings.TrimSpace(value)
}

// collectText gathers the trimmed text of every element matching the
// selector, skipping empty nodes
func collectText(s *goquery.Selection, selector string) []string {
	var texts []string
	s.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if text := helpers.CleanText(sel.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

// joinedText extracts all text under the first selector of the list
// that yields anything, joined with single spaces. Sources move
// descriptions between containers, so a fallback chain is used.
func joinedText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		texts := collectText(doc.Selection, selector)
		if len(texts) > 0 {
			return strings.Join(texts, " ")
		}
	}
	return ""
}

// metaValue scans elements matching itemSelector for one whose text
// contains the label, and returns the cleaned text of valueSelector
// within it. goquery has no :contains pseudo-class, so labeled
// metadata rows are matched by walking the candidates.
func metaValue(doc *goquery.Document, itemSelector, label, valueSelector string) string {
	var value string
	doc.Find(itemSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), label) {
			return true
		}
		value = helpers.CleanText(s.Find(valueSelector).First().Text())
		return false
	})
	return value
}
