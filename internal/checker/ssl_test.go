package checker_test

import (
	"context"
	"testing"
	"time"

	"github.com/seolens/seolens/internal/checker"
	"github.com/seolens/seolens/internal/model"
)

func TestSSLChecker_PlainHTTP(t *testing.T) {
	t.Parallel()

	in := checker.Input{
		TargetURL: "http://example.com",
		Cert:      &model.CertificateInfo{Checked: false},
	}

	findings := (&checker.SSLChecker{}).Check(context.Background(), in)
	f := findByMessage(findings, "plain HTTP")
	if f == nil {
		t.Fatalf("expected plain HTTP finding, got %v", findings)
	}
	if f.Severity != model.SeverityWarning || f.Score != 50 {
		t.Errorf("plain HTTP finding = %+v", f)
	}
}

func TestSSLChecker_Expired(t *testing.T) {
	t.Parallel()

	in := checker.Input{
		TargetURL: "https://example.com",
		Cert: &model.CertificateInfo{
			Checked:  true,
			NotAfter: time.Now().Add(-24 * time.Hour),
			Err:      &model.CertificateError{Kind: model.CertErrExpired},
		},
	}

	findings := (&checker.SSLChecker{}).Check(context.Background(), in)
	f := findByMessage(findings, "expired on")
	if f == nil {
		t.Fatalf("expected expiry finding, got %v", findings)
	}
	if f.Severity != model.SeverityCritical || f.Score != 0 {
		t.Errorf("expired cert must be critical score 0, got %+v", f)
	}
}

func TestSSLChecker_Untrusted(t *testing.T) {
	t.Parallel()

	in := checker.Input{
		TargetURL: "https://example.com",
		Cert: &model.CertificateInfo{
			Checked: true,
			Err:     &model.CertificateError{Kind: model.CertErrUntrusted},
		},
	}

	findings := (&checker.SSLChecker{}).Check(context.Background(), in)
	if findByMessage(findings, "not trusted") == nil {
		t.Errorf("expected untrusted finding, got %v", findings)
	}
}

func TestSSLChecker_ExpiresSoon(t *testing.T) {
	t.Parallel()

	in := checker.Input{
		TargetURL: "https://example.com",
		Cert: &model.CertificateInfo{
			Checked:  true,
			Valid:    true,
			NotAfter: time.Now().Add(5 * 24 * time.Hour),
			Issuer:   "CN=Test CA",
		},
	}

	findings := (&checker.SSLChecker{}).Check(context.Background(), in)
	f := findByMessage(findings, "expires soon")
	if f == nil {
		t.Fatalf("expected expires-soon warning, got %v", findings)
	}
	if f.Severity != model.SeverityWarning {
		t.Errorf("severity = %s", f.Severity)
	}
}

func TestSSLChecker_Healthy(t *testing.T) {
	t.Parallel()

	in := checker.Input{
		TargetURL: "https://example.com",
		Cert: &model.CertificateInfo{
			Checked:  true,
			Valid:    true,
			NotAfter: time.Now().Add(90 * 24 * time.Hour),
			Issuer:   "CN=Test CA",
		},
	}

	findings := (&checker.SSLChecker{}).Check(context.Background(), in)
	if len(findings) != 1 {
		t.Fatalf("expected one informational note, got %v", findings)
	}
	if findings[0].Severity != model.SeverityInfo || findings[0].Score != 100 {
		t.Errorf("healthy cert note = %+v", findings[0])
	}
}
