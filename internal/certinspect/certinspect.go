// Package certinspect establishes its own TLS connection to the target host
// to extract certificate validity metadata. It runs independently of the page
// fetch so certificate problems are still reported when the HTTP fetch itself
// aborts on a bad handshake.
package certinspect

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"time"

	"github.com/seolens/seolens/internal/interfaces"
	"github.com/seolens/seolens/internal/model"
)

// ExpirySoonWindow is how close to expiry a certificate may get before the
// ssl checker starts warning about it.
const ExpirySoonWindow = 14 * 24 * time.Hour

type Inspector struct {
	timeout time.Duration
	logger  interfaces.Logger

	// dialFn is swappable in tests.
	dialFn func(ctx context.Context, addr string, cfg *tls.Config) (*tls.Conn, error)
}

func New(timeout time.Duration, logger interfaces.Logger) *Inspector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Inspector{
		timeout: timeout,
		logger:  logger.With(interfaces.Field{Key: "component", Value: "certinspect"}),
		dialFn:  dialTLS,
	}
}

func dialTLS(ctx context.Context, addr string, cfg *tls.Config) (*tls.Conn, error) {
	d := &tls.Dialer{Config: cfg}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return conn.(*tls.Conn), nil
}

// Inspect connects to host:port and returns certificate metadata. host may
// carry an explicit port; 443 is assumed otherwise. The result always comes
// back non-nil; failures are classified on CertificateInfo.Err.
func (i *Inspector) Inspect(ctx context.Context, host string) *model.CertificateInfo {
	info := &model.CertificateInfo{Host: host, Checked: true}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "443")
	}
	serverName, _, _ := net.SplitHostPort(addr)

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	conn, err := i.dialFn(ctx, addr, &tls.Config{ServerName: serverName})
	if err == nil {
		defer conn.Close()
		state := conn.ConnectionState()
		if len(state.PeerCertificates) > 0 {
			fillFromCert(info, state.PeerCertificates[0])
			info.Valid = true
		}
		return info
	}

	kind := classify(err)

	// Verification failed: reconnect without verification to still extract
	// issuer and expiry, so the report can say expired vs untrusted.
	if kind == model.CertErrUntrusted || kind == model.CertErrExpired {
		if insecure, ierr := i.dialFn(ctx, addr, &tls.Config{ServerName: serverName, InsecureSkipVerify: true}); ierr == nil {
			state := insecure.ConnectionState()
			if len(state.PeerCertificates) > 0 {
				leaf := state.PeerCertificates[0]
				fillFromCert(info, leaf)
				if time.Now().After(leaf.NotAfter) {
					kind = model.CertErrExpired
				}
			}
			insecure.Close()
		}
	}

	i.logger.Warn("certificate inspection failed",
		interfaces.Field{Key: "host", Value: host},
		interfaces.Field{Key: "kind", Value: string(kind)},
		interfaces.Field{Key: "error", Value: err.Error()})

	info.Valid = false
	info.Err = &model.CertificateError{Kind: kind, Host: host, Err: err}
	return info
}

func fillFromCert(info *model.CertificateInfo, cert *x509.Certificate) {
	info.Issuer = cert.Issuer.String()
	info.Subject = cert.Subject.String()
	info.NotAfter = cert.NotAfter
	info.NotBefore = cert.NotBefore
}

func classify(err error) model.CertificateErrorKind {
	var certInvalid x509.CertificateInvalidError
	if errors.As(err, &certInvalid) && certInvalid.Reason == x509.Expired {
		return model.CertErrExpired
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return model.CertErrUntrusted
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return model.CertErrUntrusted
	}
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		// Look through to the x509 reason when available.
		var inner x509.CertificateInvalidError
		if errors.As(verifyErr.Err, &inner) && inner.Reason == x509.Expired {
			return model.CertErrExpired
		}
		return model.CertErrUntrusted
	}

	return model.CertErrHandshakeFailed
}
