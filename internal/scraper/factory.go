package scraper

import (
	"fmt"

	apperr "sjsage522/jobworker/pkg/errors"
)

// ParseSource parses a source identifier string
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceJobinja, SourceJobvision, SourceLinkedIn:
		return Source(s), nil
	default:
		return "", apperr.NewConfiguration(fmt.Sprintf("unknown job source %q", s), nil)
	}
}

// NewAdapter creates the adapter for a source. The source set is
// closed; an unknown source is a configuration error. An empty
// baseURL selects the source's canonical site.
func NewAdapter(source Source, baseURL string) (Adapter, error) {
	switch source {
	case SourceJobinja:
		return NewJobinjaAdapter(baseURL), nil
	case SourceJobvision:
		return NewJobvisionAdapter(baseURL), nil
	case SourceLinkedIn:
		return NewLinkedInAdapter(baseURL), nil
	default:
		return nil, apperr.NewConfiguration(fmt.Sprintf("no adapter for source %q", source), nil)
	}
}
