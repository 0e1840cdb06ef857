// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/nonexistent")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure without a JWT secret")
	}
}

func TestLoadDefaultsWithEnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/nonexistent")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_IN_MEMORY", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECOMMEND_SAMPLE_SIZE", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Store.InMemory {
		t.Error("store.in_memory not applied from env")
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("cors_origins = %v, want split and trimmed pair", cfg.Security.CORSOrigins)
	}
	if cfg.Recommend.Limits.SampleSize != 7 {
		t.Errorf("recommend.limits.sample_size = %d, want 7", cfg.Recommend.Limits.SampleSize)
	}
	if cfg.Recommend.Weights.Social != 40 {
		t.Errorf("recommend.weights.social = %g, want default 40", cfg.Recommend.Weights.Social)
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7000
  environment: development
logging:
  level: warn
security:
  auth_mode: none
  rate_limit_disabled: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("STORE_IN_MEMORY", "true")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("server.port = %d, want 7000 from file", cfg.Server.Port)
	}
	// Env outranks file.
	if cfg.Logging.Level != "error" {
		t.Errorf("logging.level = %q, want error from env", cfg.Logging.Level)
	}
	if cfg.Security.AuthMode != "none" {
		t.Errorf("auth_mode = %q, want none from file", cfg.Security.AuthMode)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"STORE_GC_INTERVAL", "store.gc_interval"},
		{"RECOMMEND_WEIGHT_SOCIAL", "recommend.weights.social"},
		{"RECOMMEND_MAX_RESULTS", "recommend.limits.max_results"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%s) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWTSecret = testSecret
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"valid", func(*Config) {}, true},
		{"auth none in development", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Security.JWTSecret = ""
		}, true},
		{"auth none in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
		}, false},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "basic" }, false},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, false},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, false},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, false},
		{"bad bcrypt cost", func(c *Config) { c.Security.BcryptCost = 2 }, false},
		{"missing store path", func(c *Config) { c.Store.Path = "" }, false},
		{"in-memory without path", func(c *Config) {
			c.Store.Path = ""
			c.Store.InMemory = true
		}, true},
		{"bad gc ratio", func(c *Config) { c.Store.GCDiscardRatio = 1.5 }, false},
		{"zero rate limit while enabled", func(c *Config) { c.Security.RateLimitReqs = 0 }, false},
		{"zero rate limit while disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, true},
		{"max page below default", func(c *Config) { c.API.MaxPageSize = 5 }, false},
		{"invalid recommend section", func(c *Config) { c.Recommend.Limits.MaxResults = 0 }, false},
		{"zero limiter ttl", func(c *Config) { c.Security.LimiterTTL = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFindConfigFilePrefersEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 1234\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}
