package engine

import (
	"context"
)

// Fetcher retrieves the markup of the page under audit.
type Fetcher interface {
	// Fetch performs exactly one GET for req.URL. Any transport failure or
	// non-2xx status is returned as an error.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// Prober performs the lightweight existence check used for broken links.
type Prober interface {
	// Probe issues one HEAD for url and returns the response status code.
	Probe(ctx context.Context, url string) (int, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
}

// FetchResult is the output of a successful fetch.
type FetchResult struct {
	HTML        string
	StatusCode  int
	FinalURL    string
	ContentType string

	// Truncated is set when the body exceeded the engine's read cap.
	Truncated bool
}
