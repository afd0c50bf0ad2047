package config_test

import (
	"testing"
	"time"

	"github.com/nabbar/bolt/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestZeroPoolSizeFailsValidation(t *testing.T) {
	cfg := config.Default()
	cfg.MaxPoolSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for zero pool size")
	}
}

func TestTransportOptionsCarriesTLSOnlyWhenEncrypted(t *testing.T) {
	cfg := config.Default()
	opt, err := cfg.TransportOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLS != nil {
		t.Fatalf("expected no TLS options for plaintext transport")
	}

	cfg.Transport = config.TransportEncrypted
	opt, err = cfg.TransportOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLS == nil {
		t.Fatalf("expected TLS options for encrypted transport")
	}
}

func TestDecodeFromLooseMap(t *testing.T) {
	cfg, err := config.Decode(map[string]any{
		"UserAgent":   "custom-agent/2.0",
		"MaxPoolSize": "10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UserAgent != "custom-agent/2.0" {
		t.Fatalf("expected decoded user agent, got %q", cfg.UserAgent)
	}
	if cfg.MaxPoolSize != 10 {
		t.Fatalf("expected decoded pool size 10, got %d", cfg.MaxPoolSize)
	}
	if cfg.MaxConnectionAcquireTime != 60*time.Second {
		t.Fatalf("expected default acquisition timeout to survive partial decode, got %s", cfg.MaxConnectionAcquireTime)
	}
}
