// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package config loads and validates application configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/sociograph/internal/recommend"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig      `json:"server" koanf:"server"`
	Store     StoreConfig       `json:"store" koanf:"store"`
	Security  SecurityConfig    `json:"security" koanf:"security"`
	API       APIConfig         `json:"api" koanf:"api"`
	Logging   LoggingConfig     `json:"logging" koanf:"logging"`
	Recommend *recommend.Config `json:"recommend" koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `json:"host" koanf:"host"`
	Port    int           `json:"port" koanf:"port"`
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// Environment toggles production-only validation ("development" or
	// "production").
	Environment string `json:"environment" koanf:"environment"`
}

// StoreConfig holds embedded database settings.
type StoreConfig struct {
	Path string `json:"path" koanf:"path"`

	// InMemory runs the store without persistence. Test and demo use only.
	InMemory bool `json:"in_memory" koanf:"in_memory"`

	GCInterval     time.Duration `json:"gc_interval" koanf:"gc_interval"`
	GCDiscardRatio float64       `json:"gc_discard_ratio" koanf:"gc_discard_ratio"`
}

// SecurityConfig holds authentication and rate-limit settings.
type SecurityConfig struct {
	// AuthMode selects the authentication layer: "jwt" or "none".
	AuthMode string `json:"auth_mode" koanf:"auth_mode"`

	JWTSecret   string        `json:"jwt_secret" koanf:"jwt_secret"`
	TokenExpiry time.Duration `json:"token_expiry" koanf:"token_expiry"`
	BcryptCost  int           `json:"bcrypt_cost" koanf:"bcrypt_cost"`

	RateLimitReqs     int           `json:"rate_limit_reqs" koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `json:"rate_limit_window" koanf:"rate_limit_window"`
	RateLimitDisabled bool          `json:"rate_limit_disabled" koanf:"rate_limit_disabled"`

	// LimiterTTL is how long an idle per-identity limiter is retained
	// before the sweeper evicts it.
	LimiterTTL time.Duration `json:"limiter_ttl" koanf:"limiter_ttl"`

	CORSOrigins    []string `json:"cors_origins" koanf:"cors_origins"`
	TrustedProxies []string `json:"trusted_proxies" koanf:"trusted_proxies"`
}

// APIConfig holds pagination bounds for list endpoints.
type APIConfig struct {
	DefaultPageSize int `json:"default_page_size" koanf:"default_page_size"`
	MaxPageSize     int `json:"max_page_size" koanf:"max_page_size"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `json:"level" koanf:"level"`
	Format string `json:"format" koanf:"format"`
	Caller bool   `json:"caller" koanf:"caller"`
}

// IsProduction reports whether production validation rules apply.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	switch c.Security.AuthMode {
	case "jwt", "none":
	default:
		return fmt.Errorf("security.auth_mode must be \"jwt\" or \"none\", got %q", c.Security.AuthMode)
	}
	if c.Security.AuthMode == "none" && c.IsProduction() {
		return fmt.Errorf("security.auth_mode \"none\" is not allowed in production")
	}
	if c.Security.AuthMode == "jwt" {
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("security.jwt_secret is required when auth_mode is \"jwt\"")
		}
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
		}
	}
	if c.Security.TokenExpiry <= 0 {
		return fmt.Errorf("security.token_expiry must be positive, got %s", c.Security.TokenExpiry)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be 4-31, got %d", c.Security.BcryptCost)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
		if c.Security.LimiterTTL <= 0 {
			return fmt.Errorf("security.limiter_ttl must be positive, got %s", c.Security.LimiterTTL)
		}
	}

	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Store.GCDiscardRatio <= 0 || c.Store.GCDiscardRatio >= 1 {
		return fmt.Errorf("store.gc_discard_ratio must be in (0, 1), got %g", c.Store.GCDiscardRatio)
	}
	if c.Store.GCInterval <= 0 {
		return fmt.Errorf("store.gc_interval must be positive, got %s", c.Store.GCInterval)
	}

	if c.API.DefaultPageSize <= 0 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size %d is below api.default_page_size %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if c.Recommend != nil {
		if err := c.Recommend.Validate(); err != nil {
			return fmt.Errorf("recommend: %w", err)
		}
	}

	return nil
}
