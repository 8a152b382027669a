package fetcher

import "time"

type Config struct {
	// Timeout is the hard deadline for one fetch, covering DNS, connect and
	// full body read.
	Timeout time.Duration

	// UserAgent sent with every request.
	UserAgent string
}

// DefaultConfig mirrors the request defaults the analyzer ships with.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "SEO-Audit-Tool/1.0 (+https://seo-audit-tool.com)",
	}
}
