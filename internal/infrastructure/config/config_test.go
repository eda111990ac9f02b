package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/s18id/jurnapod-sub001/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis URL default to be empty, got %q", cfg.RedisURL)
	}

	if cfg.SyncPostingMode != "disabled" {
		t.Fatalf("expected sync posting mode to default to disabled, got %s", cfg.SyncPostingMode)
	}

	if cfg.MappingCacheTTL != 5*time.Minute {
		t.Fatalf("expected default mapping cache TTL 5m, got %s", cfg.MappingCacheTTL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("SYNC_POSTING_MODE", "shadow")
	t.Setenv("MAPPING_CACHE_TTL", "90s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.SyncPostingMode != "shadow" || cfg.MappingCacheTTL != 90*time.Second {
		t.Fatalf("expected posting settings to be set, got mode=%s ttl=%s", cfg.SyncPostingMode, cfg.MappingCacheTTL)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
