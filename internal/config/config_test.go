package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	c := Config{}
	c.App = AppConfig{Env: "local", Port: 8080}
	c.DB = DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "panda", SSLMode: "disable"}
	c.Redis = RedisConfig{Host: "localhost", Port: 6379}
	c.Auth = AuthConfig{JWTSecret: "secret"}
	c.Identity = IdentityConfig{BaseURL: "http://identity.local"}
	c.Proxy = ProxyConfig{UpstreamURL: "http://core-api.local"}
	return c
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"APP_ENV", "JWT_SECRET", "IDENTITY_SERVICE_URL", "UPSTREAM_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestValidate_ProductionRequiresIssuerAndAudience(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.DB.SSLMode = "require"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without issuer/audience")
	}

	c.Auth.JWTIssuer = "panda-proxy"
	c.Auth.JWTAudience = "https://portal.example.com"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_AppliesDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Auth.CookieName != "ientcToken" {
		t.Fatalf("expected default cookie name, got %q", c.Auth.CookieName)
	}
	if c.Auth.TokenTTL != 12*time.Hour {
		t.Fatalf("expected default token ttl, got %v", c.Auth.TokenTTL)
	}
	if c.Auth.CookieMaxAge != c.Auth.TokenTTL {
		t.Fatalf("expected cookie max-age to follow token ttl, got %v", c.Auth.CookieMaxAge)
	}
	if c.Identity.Timeout != 5*time.Second {
		t.Fatalf("expected default identity timeout, got %v", c.Identity.Timeout)
	}
	if c.Redis.LoginMaxAttempts != 10 {
		t.Fatalf("expected default login attempts, got %d", c.Redis.LoginMaxAttempts)
	}
}

func TestValidate_RejectsUnknownEnv(t *testing.T) {
	c := validConfig()
	c.App.Env = "qa"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}
