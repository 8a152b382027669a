package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/seolens/seolens/internal/certinspect"
	"github.com/seolens/seolens/internal/model"
)

// SSLChecker turns the certificate inspector's result into findings. When the
// HTTP fetch aborted on the same handshake problem, this is where the two
// failures correlate into one certificate finding.
type SSLChecker struct{}

func (s *SSLChecker) Category() model.Category { return model.CategorySSL }

func (s *SSLChecker) Check(ctx context.Context, in Input) []model.Finding {
	cat := s.Category()

	cert := in.Cert
	if cert == nil || !cert.Checked {
		return []model.Finding{{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  "page is served over plain HTTP; no certificate to inspect",
			Score:    50,
		}}
	}

	if cert.Err != nil {
		switch cert.Err.Kind {
		case model.CertErrExpired:
			return []model.Finding{{
				Category: cat,
				Severity: model.SeverityCritical,
				Message:  fmt.Sprintf("certificate expired on %s", cert.NotAfter.Format("2006-01-02")),
				Score:    0,
				Value:    cert.NotAfter,
			}}
		case model.CertErrUntrusted:
			return []model.Finding{{
				Category: cat,
				Severity: model.SeverityCritical,
				Message:  "certificate is not trusted (self-signed or unknown authority)",
				Score:    10,
			}}
		default:
			return []model.Finding{{
				Category: cat,
				Severity: model.SeverityCritical,
				Message:  fmt.Sprintf("TLS handshake failed: %v", cert.Err.Err),
				Score:    20,
			}}
		}
	}

	var findings []model.Finding

	if until := time.Until(cert.NotAfter); until > 0 && until < certinspect.ExpirySoonWindow {
		findings = append(findings, model.Finding{
			Category: cat,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("certificate expires soon (%s)", cert.NotAfter.Format("2006-01-02")),
			Score:    50,
			Value:    cert.NotAfter,
		})
	}

	findings = append(findings, note(cat,
		fmt.Sprintf("certificate valid until %s, issued by %s", cert.NotAfter.Format("2006-01-02"), cert.Issuer),
		cert.Issuer))

	return findings
}
