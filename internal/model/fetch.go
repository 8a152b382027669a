package model

import (
	"net/http"
	"time"
)

// FetchResult is the outcome of retrieving the target page. Owned exclusively
// by the fetcher that produced it; checkers consume it read-only. Each
// analysis allocates its own instance, so concurrent analyses never share one.
type FetchResult struct {
	// RequestedURL is the URL the analysis was asked for.
	RequestedURL string `json:"requested_url"`

	// FinalURL is the URL after following redirects.
	FinalURL string `json:"final_url"`

	// StatusCode is 0 when the fetch failed before a response arrived.
	// Non-2xx/3xx codes are captured here, not treated as fetch errors.
	StatusCode int `json:"status_code"`

	// Headers of the final response. Lookups go through http.Header so key
	// casing does not matter.
	Headers http.Header `json:"-"`

	// Body is the full response body as text.
	Body string `json:"-"`

	// Elapsed covers DNS, connect and full body read.
	Elapsed time.Duration `json:"elapsed"`

	// Err is non-nil when the fetch failed; its kind explains why.
	Err *FetchError `json:"-"`
}

// OK reports whether the fetch produced a response body worth analyzing.
func (f *FetchResult) OK() bool {
	return f != nil && f.Err == nil && f.StatusCode != 0
}

// CertificateInfo is produced once per analysis by the certificate inspector,
// over its own TLS connection, independent of the page fetch.
type CertificateInfo struct {
	Host      string    `json:"host"`
	Issuer    string    `json:"issuer,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	NotAfter  time.Time `json:"not_after,omitempty"`
	NotBefore time.Time `json:"not_before,omitempty"`
	Valid     bool      `json:"valid"`

	// Checked is false when the target was plain http and no TLS connection
	// was attempted.
	Checked bool `json:"checked"`

	// Err is non-nil when the inspection failed (handshake, expiry, trust).
	Err *CertificateError `json:"-"`
}
