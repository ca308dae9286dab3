package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if got := cfg.SessionTTL(); got != 8*time.Hour {
		t.Errorf("SessionTTL = %v", got)
	}
	if got := cfg.SetPasswordTokenTTL(); got != 24*time.Hour {
		t.Errorf("SetPasswordTokenTTL = %v", got)
	}
	if got := cfg.TwoFACodeTTL(); got != 5*time.Minute {
		t.Errorf("TwoFACodeTTL = %v", got)
	}
	if !cfg.TwoFAEnabled {
		t.Error("TwoFAEnabled = false, want true by default")
	}
	if cfg.TwoFAReturnToClient {
		t.Error("TwoFAReturnToClient = true, want false by default")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load without JWT_SECRET = nil, want error")
	}
}

func TestLoadRejectsDevModeInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TWOFA_RETURN_TO_CLIENT", "true")

	if _, err := Load(); err == nil {
		t.Fatal("Load with dev 2fa mode in production = nil, want error")
	}
}

func TestLoadValidatesCodeLength(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TWOFA_CODE_LENGTH", "2")

	if _, err := Load(); err == nil {
		t.Fatal("Load with code length 2 = nil, want error")
	}
}

func TestCORSOriginsList(t *testing.T) {
	cfg := &Config{CORSOrigins: "http://localhost:4200, https://portal.example.org ,"}
	got := cfg.CORSOriginsList()
	if len(got) != 2 || got[0] != "http://localhost:4200" || got[1] != "https://portal.example.org" {
		t.Fatalf("CORSOriginsList = %v", got)
	}
}
