package model

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why a fetch did not produce a usable response.
// Distinct kinds let the report explain why an analysis was partial.
type FetchErrorKind string

const (
	FetchErrTimeout           FetchErrorKind = "timeout"
	FetchErrTooManyRedirects  FetchErrorKind = "too_many_redirects"
	FetchErrDNSFailure        FetchErrorKind = "dns_failure"
	FetchErrConnectionRefused FetchErrorKind = "connection_refused"
	FetchErrTLSFailure        FetchErrorKind = "tls_failure"
	FetchErrOther             FetchErrorKind = "other"
)

// FetchError wraps a transport failure with its classified kind.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchKind extracts the FetchErrorKind from err, or FetchErrOther when err
// is not a FetchError.
func FetchKind(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FetchErrOther
}

// CertificateErrorKind classifies certificate inspection failures.
type CertificateErrorKind string

const (
	CertErrHandshakeFailed CertificateErrorKind = "handshake_failed"
	CertErrExpired         CertificateErrorKind = "expired"
	CertErrUntrusted       CertificateErrorKind = "untrusted"
)

// CertificateError wraps a TLS inspection failure with its classified kind.
type CertificateError struct {
	Kind CertificateErrorKind
	Host string
	Err  error
}

func (e *CertificateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("certificate %s: %s", e.Host, e.Kind)
	}
	return fmt.Sprintf("certificate %s: %s: %v", e.Host, e.Kind, e.Err)
}

func (e *CertificateError) Unwrap() error { return e.Err }

// ErrInvalidWeights is returned when a weight table does not sum to 1.0.
// It is fatal at startup, never surfaced at request time.
var ErrInvalidWeights = errors.New("category weights must sum to 1.0")

// ErrInvalidURL is returned by Analyze for input that is not an absolute
// http/https URL.
var ErrInvalidURL = errors.New("target must be an absolute http or https URL")

// ErrUnknownCategory is returned by Analyze when a requested check does not
// name one of the known categories.
var ErrUnknownCategory = errors.New("unknown check category")
