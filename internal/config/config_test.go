package config

import "testing"

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	t.Setenv("DEFAULT_PROFILE_IMAGE_URL", "https://cdn/default.png")

	cfg := Load()
	if cfg.HTTPPort != "9999" {
		t.Fatalf("HTTPPort override ignored: %q", cfg.HTTPPort)
	}
	if cfg.RateLimitPerMin != 5 {
		t.Fatalf("RateLimitPerMin override ignored: %d", cfg.RateLimitPerMin)
	}
	if cfg.DefaultProfileImageURL != "https://cdn/default.png" {
		t.Fatalf("default image override ignored: %q", cfg.DefaultProfileImageURL)
	}
	if cfg.Env != "dev" || cfg.QueueBackend != "redis" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestIntEnvRejectsGarbage(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "not-a-number")
	cfg := Load()
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("expected fallback 120, got %d", cfg.RateLimitPerMin)
	}
}

func TestListEnvSplitsAndTrims(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	cfg := Load()
	if len(cfg.CORSAllowedOrigins) != 2 ||
		cfg.CORSAllowedOrigins[0] != "https://a.example.com" ||
		cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
}
