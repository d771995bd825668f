package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.VerificationTTL != 24*time.Hour {
		t.Errorf("VerificationTTL = %v", cfg.VerificationTTL)
	}
	if cfg.ResetTTL != time.Hour {
		t.Errorf("ResetTTL = %v", cfg.ResetTTL)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
	if cfg.RateBurst != 20 || cfg.RatePerSec != 10 {
		t.Errorf("rate limits = %d/%d", cfg.RateBurst, cfg.RatePerSec)
	}
	if cfg.PGDSN != "" || cfg.RedisAddr != "" {
		t.Errorf("backing stores should default to empty: %q %q", cfg.PGDSN, cfg.RedisAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CREWDESK_ADDR", ":9090")
	t.Setenv("CREWDESK_AUTH_SECRET", "s3cret")
	t.Setenv("CREWDESK_VERIFICATION_TTL", "48h")
	t.Setenv("CREWDESK_RESET_TTL", "30m")
	t.Setenv("CREWDESK_BCRYPT_COST", "10")
	t.Setenv("CREWDESK_REDIS_DB", "3")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.AuthSecret != "s3cret" {
		t.Errorf("AuthSecret = %q", cfg.AuthSecret)
	}
	if cfg.VerificationTTL != 48*time.Hour {
		t.Errorf("VerificationTTL = %v", cfg.VerificationTTL)
	}
	if cfg.ResetTTL != 30*time.Minute {
		t.Errorf("ResetTTL = %v", cfg.ResetTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d", cfg.RedisDB)
	}
}

func TestLoadIgnoresGarbageValues(t *testing.T) {
	t.Setenv("CREWDESK_BCRYPT_COST", "not-a-number")
	t.Setenv("CREWDESK_RESET_TTL", "-5m")

	cfg := Load()
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want default", cfg.BcryptCost)
	}
	if cfg.ResetTTL != time.Hour {
		t.Errorf("ResetTTL = %v, want default", cfg.ResetTTL)
	}
}
