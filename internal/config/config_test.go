package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.ListenAddr != ":8000" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.ReceiptRateLimit != 10 || cfg.ReceiptRateWindow != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %d / %s", cfg.ReceiptRateLimit, cfg.ReceiptRateWindow)
	}
	if cfg.Chat.Provider != "beautiful-chat" || cfg.Chat.Locale != "fr" {
		t.Fatalf("unexpected chat defaults: %+v", cfg.Chat)
	}
	if cfg.IsProduction() {
		t.Fatalf("development default should not report production")
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("NFEAT_ENV", "production")
	t.Setenv("NFEAT_RECEIPT_RATE_LIMIT", "3")
	t.Setenv("NFEAT_PROFILE_CACHE_TTL", "90s")
	t.Setenv("NFEAT_CHAT_ENABLED", "false")

	cfg := New()
	if !cfg.IsProduction() {
		t.Fatalf("expected production mode")
	}
	if cfg.ReceiptRateLimit != 3 {
		t.Fatalf("expected rate limit 3, got %d", cfg.ReceiptRateLimit)
	}
	if cfg.ProfileCacheTTL != 90*time.Second {
		t.Fatalf("expected 90s cache ttl, got %s", cfg.ProfileCacheTTL)
	}
	if cfg.Chat.Enabled {
		t.Fatalf("expected chat disabled")
	}
}

func TestNewIgnoresMalformedValues(t *testing.T) {
	t.Setenv("NFEAT_RECEIPT_RATE_LIMIT", "beaucoup")
	t.Setenv("NFEAT_PROFILE_FETCH_TIMEOUT", "vite")

	cfg := New()
	if cfg.ReceiptRateLimit != 10 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.ReceiptRateLimit)
	}
	if cfg.ProfileFetchTimeout != 5*time.Second {
		t.Fatalf("expected fallback timeout, got %s", cfg.ProfileFetchTimeout)
	}
}
