package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEXQUADRA_HTTP_PORT", "")
	t.Setenv("NEXQUADRA_SQLITE_DSN", "")
	t.Setenv("NEXQUADRA_SESSION_TTL", "")
	t.Setenv("NEXQUADRA_HORIZON_WEEKS", "")
	t.Setenv("NEXQUADRA_INITIAL_SIBLINGS", "")
	t.Setenv("NEXQUADRA_TIMEZONE", "")
	t.Setenv("NEXQUADRA_VIACEP_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected default TTL 24h, got %s", cfg.SessionTTL)
	}
	if cfg.HorizonWeeks != 12 {
		t.Errorf("expected default horizon of 12 weeks, got %d", cfg.HorizonWeeks)
	}
	if cfg.TimezoneName != "America/Sao_Paulo" {
		t.Errorf("expected default timezone America/Sao_Paulo, got %s", cfg.TimezoneName)
	}
	if cfg.InitialSiblings != 5 {
		t.Errorf("expected 5 initial siblings, got %d", cfg.InitialSiblings)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NEXQUADRA_HTTP_PORT", "9090")
	t.Setenv("NEXQUADRA_SQLITE_DSN", "file:test.db")
	t.Setenv("NEXQUADRA_SESSION_TTL", "2h")
	t.Setenv("NEXQUADRA_HORIZON_WEEKS", "4")
	t.Setenv("NEXQUADRA_INITIAL_SIBLINGS", "8")
	t.Setenv("NEXQUADRA_VIACEP_URL", "http://localhost:9999/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:test.db" {
		t.Errorf("unexpected dsn %q", cfg.SQLiteDSN)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected TTL 2h, got %s", cfg.SessionTTL)
	}
	if cfg.HorizonWeeks != 4 {
		t.Errorf("expected horizon 4, got %d", cfg.HorizonWeeks)
	}
	if cfg.InitialSiblings != 8 {
		t.Errorf("expected 8 initial siblings, got %d", cfg.InitialSiblings)
	}
	if cfg.ViaCEPBaseURL != "http://localhost:9999" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.ViaCEPBaseURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"NEXQUADRA_HTTP_PORT":        "zero",
		"NEXQUADRA_SESSION_TTL":      "-1h",
		"NEXQUADRA_HORIZON_WEEKS":    "0",
		"NEXQUADRA_INITIAL_SIBLINGS": "-3",
		"NEXQUADRA_TIMEZONE":         "Mars/Olympus",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
