package model

import (
	"net/http"
	"time"
)

// Request is the transport-agnostic request passed to a WebClient backend.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
	// Options contains backend-specific options like "render": "true" for chromedp
	Options map[string]string
}

// Response is what a WebClient backend hands back after executing a Request.
type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int

	// FinalURL is the URL that actually answered, after redirects.
	FinalURL string

	FetchedAt time.Time
	Elapsed   time.Duration
}
