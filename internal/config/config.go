// Package config loads the service configuration from MEDRX_ prefixed
// environment variables (optionally seeded from a .env file) and validates it.
//
// Nesting uses a double underscore: MEDRX_DATABASE__HOST maps to database.host.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix   = "MEDRX_"
	serviceName = "medical-prescription"
)

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	PDF           PDFConfig            `koanf:"pdf"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimitRPS       float64  `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst     int      `koanf:"rate_limit_burst" validate:"gte=0"`
}

type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN renders the connection string shared by the pool and the migrator.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

const (
	AuthProviderJWT   = "jwt"
	AuthProviderClerk = "clerk"
)

// AuthConfig selects how bearer tokens are verified. With the jwt provider
// SecretKey signs HS256 session tokens; with clerk it is the Clerk secret key.
type AuthConfig struct {
	Provider  string        `koanf:"provider" validate:"required,oneof=jwt clerk"`
	SecretKey string        `koanf:"secret_key" validate:"required"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
	EmailFrom    string `koanf:"email_from"`
}

type PDFConfig struct {
	Filename string `koanf:"filename"`
}

// LoadConfig reads, validates and defaults the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults(k)

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// applyDefaults fills unset keys. Keys present in k keep their value, so an
// explicit zero rate limit stays zero.
func (c *Config) applyDefaults(k *koanf.Koanf) {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = serviceName
	c.Observability.Environment = c.Primary.Env

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Receituário <onboarding@resend.dev>"
	}
	if c.PDF.Filename == "" {
		c.PDF.Filename = "prescription.pdf"
	}
	if !k.Exists("server.rate_limit_rps") {
		c.Server.RateLimitRPS = 20
	}
	if !k.Exists("server.rate_limit_burst") {
		c.Server.RateLimitBurst = 40
	}
}
