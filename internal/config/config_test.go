package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"MEDRX_PRIMARY__ENV":                 "local",
		"MEDRX_SERVER__PORT":                 "8080",
		"MEDRX_SERVER__READ_TIMEOUT":         "30",
		"MEDRX_SERVER__WRITE_TIMEOUT":        "30",
		"MEDRX_SERVER__IDLE_TIMEOUT":         "60",
		"MEDRX_SERVER__CORS_ALLOWED_ORIGINS": "http://localhost:3000",
		"MEDRX_DATABASE__HOST":               "localhost",
		"MEDRX_DATABASE__PORT":               "5432",
		"MEDRX_DATABASE__USER":               "medrx",
		"MEDRX_DATABASE__PASSWORD":           "p@ss word",
		"MEDRX_DATABASE__NAME":               "medrx",
		"MEDRX_DATABASE__SSL_MODE":           "disable",
		"MEDRX_DATABASE__MAX_OPEN_CONNS":     "10",
		"MEDRX_DATABASE__MAX_IDLE_CONNS":     "5",
		"MEDRX_DATABASE__CONN_MAX_LIFETIME":  "300",
		"MEDRX_DATABASE__CONN_MAX_IDLE_TIME": "60",
		"MEDRX_REDIS__ADDRESS":               "localhost:6379",
		"MEDRX_AUTH__PROVIDER":               "jwt",
		"MEDRX_AUTH__SECRET_KEY":             "secret",
		"MEDRX_INTEGRATION__RESEND_API_KEY":  "re_test",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h default", cfg.Auth.TokenTTL)
	}
	if cfg.PDF.Filename != "prescription.pdf" {
		t.Errorf("PDF.Filename = %q", cfg.PDF.Filename)
	}
	if cfg.Observability == nil || cfg.Observability.ServiceName != serviceName {
		t.Fatalf("observability defaults not applied: %+v", cfg.Observability)
	}
	if cfg.Observability.Environment != "local" {
		t.Errorf("Environment = %q, want local", cfg.Observability.Environment)
	}
}

func TestLoadConfigRejectsUnknownAuthProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MEDRX_AUTH__PROVIDER", "ldap")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected validation error for unknown auth provider")
	}
}

func TestLoadConfigMissingDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MEDRX_DATABASE__HOST", "")

	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "Host") {
		t.Fatalf("expected Host validation error, got %v", err)
	}
}

func TestDSNEscapesPassword(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss word", Name: "n", SSLMode: "disable"}

	got := d.DSN()
	want := "postgres://u:p%40ss+word@db:5432/n?sslmode=disable"
	if got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ObservabilityConfig)
		wantErr bool
	}{
		{"defaults", func(*ObservabilityConfig) {}, false},
		{"bad level", func(c *ObservabilityConfig) { c.Logging.Level = "trace" }, true},
		{"negative threshold", func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, true},
		{"empty level", func(c *ObservabilityConfig) { c.Logging.Level = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	if got := c.GetLogLevel(); got != "info" {
		t.Errorf("production level = %q", got)
	}
	c.Environment = "local"
	if got := c.GetLogLevel(); got != "debug" {
		t.Errorf("local level = %q", got)
	}
}

func TestRateLimitDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.RateLimitRPS != 20 || cfg.Server.RateLimitBurst != 40 {
		t.Errorf("rate limit = %v/%d, want 20/40", cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	}
}

func TestExplicitZeroRateLimitIsKept(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MEDRX_SERVER__RATE_LIMIT_RPS", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.RateLimitRPS != 0 {
		t.Errorf("RateLimitRPS = %v, want 0 to disable limiting", cfg.Server.RateLimitRPS)
	}
}
