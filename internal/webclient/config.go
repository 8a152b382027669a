package webclient

import "time"

// Backend names the transport implementation to construct.
type Backend string

const (
	BackendNetHTTP  Backend = "nethttp"
	BackendChromedp Backend = "chromedp"
)

// Config is the minimal configuration required for constructing a WebClient.
type Config struct {
	Backend Backend

	// Timeout is the per-request transport timeout for the nethttp backend.
	Timeout time.Duration

	// IdleAfter is how long the chromedp backend waits for network silence
	// before considering a rendered page settled.
	IdleAfter time.Duration

	// Headless controls whether the chromedp backend shows a browser window.
	Headless bool
}

// DefaultConfig picks the plain HTTP backend; rendered fetches opt in
// explicitly.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendNetHTTP,
		Timeout:   30 * time.Second,
		IdleAfter: 500 * time.Millisecond,
		Headless:  true,
	}
}
