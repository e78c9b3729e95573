package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SLOT_DURATION_MINUTES", "")
	t.Setenv("SHOP_TIMEZONE", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SlotDurationMinutes != 60 {
		t.Fatalf("expected default slot duration 60, got %d", cfg.SlotDurationMinutes)
	}
	if cfg.ShopTimezone != "UTC" {
		t.Fatalf("expected default timezone UTC, got %s", cfg.ShopTimezone)
	}
	if cfg.DedupeTTL != 24*time.Hour {
		t.Fatalf("expected default dedupe TTL, got %s", cfg.DedupeTTL)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins by default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("SLOT_DURATION_MINUTES", "30")
	t.Setenv("SHOP_TIMEZONE", "America/Mexico_City")
	t.Setenv("USE_MEMORY_QUEUE", "true")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("DEDUPE_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected database url override, got %s", cfg.DatabaseURL)
	}
	if cfg.SlotDurationMinutes != 30 {
		t.Fatalf("expected slot duration 30, got %d", cfg.SlotDurationMinutes)
	}
	if cfg.ShopTimezone != "America/Mexico_City" {
		t.Fatalf("expected timezone override, got %s", cfg.ShopTimezone)
	}
	if !cfg.UseMemoryQueue {
		t.Fatal("expected memory queue enabled")
	}
	if cfg.WorkerCount != 4 {
		t.Fatalf("expected worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.DedupeTTL != time.Hour {
		t.Fatalf("expected dedupe TTL 1h, got %s", cfg.DedupeTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected trimmed CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestInvalidNumericFallsBack(t *testing.T) {
	t.Setenv("SLOT_DURATION_MINUTES", "soon")
	t.Setenv("WORKER_COUNT", "")
	cfg := Load()
	if cfg.SlotDurationMinutes != 60 {
		t.Fatalf("expected fallback slot duration, got %d", cfg.SlotDurationMinutes)
	}
	if cfg.WorkerCount != 2 {
		t.Fatalf("expected fallback worker count, got %d", cfg.WorkerCount)
	}
}
