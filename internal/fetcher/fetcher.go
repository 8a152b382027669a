// Package fetcher retrieves the target page for one analysis: headers, body
// and timing under a hard deadline, with transport failures classified so the
// report can say why an analysis was partial.
package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/seolens/seolens/internal/interfaces"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/webclient"
)

type Fetcher struct {
	cfg    Config
	wc     interfaces.WebClient
	logger interfaces.Logger
}

// New creates a Fetcher on top of the given webclient backend.
func New(cfg Config, wc interfaces.WebClient, logger interfaces.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, errors.New("fetcher: nil webclient")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	return &Fetcher{
		cfg:    cfg,
		wc:     wc,
		logger: logger.With(interfaces.Field{Key: "component", Value: "fetcher"}),
	}, nil
}

// Fetch retrieves url and always returns a FetchResult; on failure the
// result carries a classified FetchError instead of a body. Non-2xx/3xx
// status codes are captured, not treated as errors; downstream checks
// interpret status semantics.
func (f *Fetcher) Fetch(ctx context.Context, url string) *model.FetchResult {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req := &model.Request{
		Method: http.MethodGet,
		URL:    url,
		Headers: http.Header{
			"User-Agent":      []string{f.cfg.UserAgent},
			"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
			"Accept-Language": []string{"en-US,en;q=0.5"},
		},
	}

	start := time.Now()
	resp, err := f.wc.Do(ctx, req)
	elapsed := time.Since(start)

	res := &model.FetchResult{
		RequestedURL: url,
		Elapsed:      elapsed,
	}

	if err != nil {
		kind := ClassifyError(err)
		f.logger.Warn("fetch failed",
			interfaces.Field{Key: "url", Value: url},
			interfaces.Field{Key: "kind", Value: string(kind)},
			interfaces.Field{Key: "error", Value: err.Error()})
		res.Err = &model.FetchError{Kind: kind, URL: url, Err: err}
		return res
	}

	res.FinalURL = resp.FinalURL
	res.StatusCode = resp.StatusCode
	res.Headers = resp.Headers
	res.Body = string(resp.Body)
	if resp.Elapsed > 0 {
		res.Elapsed = resp.Elapsed
	}

	f.logger.Debug("fetched page",
		interfaces.Field{Key: "url", Value: url},
		interfaces.Field{Key: "final_url", Value: res.FinalURL},
		interfaces.Field{Key: "status", Value: res.StatusCode},
		interfaces.Field{Key: "bytes", Value: len(res.Body)},
		interfaces.Field{Key: "elapsed", Value: res.Elapsed.String()})

	return res
}

// ClassifyError maps a transport error onto the fetch error taxonomy.
func ClassifyError(err error) model.FetchErrorKind {
	if err == nil {
		return model.FetchErrOther
	}

	if errors.Is(err, webclient.ErrTooManyRedirects) {
		return model.FetchErrTooManyRedirects
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return model.FetchErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.FetchErrTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return model.FetchErrDNSFailure
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return model.FetchErrConnectionRefused
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return model.FetchErrTLSFailure
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return model.FetchErrTLSFailure
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return model.FetchErrTLSFailure
	}
	var certInvalid x509.CertificateInvalidError
	if errors.As(err, &certInvalid) {
		return model.FetchErrTLSFailure
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return model.FetchErrTLSFailure
	}

	return model.FetchErrOther
}

func (f *Fetcher) Close() error {
	return f.wc.Close()
}
