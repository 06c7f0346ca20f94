package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("STT_TIMEOUT", "")
	t.Setenv("APP_PORT", "9090")
	cfg := Load()
	if cfg.DBDriver != "sqlite" || cfg.Port != "9090" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.LLMTimeout != 300*time.Second || cfg.STTTimeout != 60*time.Second {
		t.Fatalf("timeouts = %v/%v", cfg.LLMTimeout, cfg.STTTimeout)
	}
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")
	if envInt("X_INT", 7) != 7 || envDur("X_DUR", time.Second) != time.Second || !envBool("X_BOOL", true) {
		t.Fatal("malformed values must fall back to defaults")
	}
	t.Setenv("X_BOOL", "off")
	if envBool("X_BOOL", true) {
		t.Fatal("off parsed as true")
	}
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_WRITE_CAPACITY", "50")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	c := LoadRateLimitConfig()
	if c.Capacity != 1 || c.WriteCapacity != 1 || c.TTL != 10*time.Second {
		t.Fatalf("cfg = %+v", c)
	}
}
