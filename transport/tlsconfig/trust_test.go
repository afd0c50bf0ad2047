package tlsconfig_test

import (
	"testing"

	"github.com/nabbar/bolt/transport/tlsconfig"
	"github.com/nabbar/bolt/transport/tlsconfig/tlsversion"
)

func TestDefaultTrustBuildsValidConfig(t *testing.T) {
	trust := tlsconfig.DefaultTrust()
	cfg, err := trust.ClientConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinVersion != uint16(tlsversion.VersionTLS12) {
		t.Fatalf("expected min version TLS 1.2, got %x", cfg.MinVersion)
	}
	if cfg.RootCAs != nil {
		t.Fatalf("expected nil RootCAs when no PEM bundle is given (platform default trust store)")
	}
}

func TestInvalidPEMBundleIsRejected(t *testing.T) {
	trust := tlsconfig.DefaultTrust()
	trust.RootCAPEM = []byte("not a certificate")

	if _, err := trust.ClientConfig(); err == nil {
		t.Fatalf("expected an error for an unparsable trust bundle")
	}
}
