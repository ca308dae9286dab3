// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret is the shared HS256 signing secret for session and set-password tokens. Required.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTSessionTTL is the session token lifetime (e.g. "8h").
	JWTSessionTTL string `mapstructure:"JWT_SESSION_TTL"`
	// SetPasswordTTL is the set-password token lifetime (e.g. "24h").
	SetPasswordTTL string `mapstructure:"SETPW_TOKEN_TTL"`
	// FrontendURL is the portal base URL used to build set-password links.
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// MailAPIURL is the transactional mail API endpoint. Empty enables the log-only mailer.
	MailAPIURL string `mapstructure:"MAIL_API_URL"`
	// MailAPIKey is the API key for the mail provider.
	MailAPIKey string `mapstructure:"MAIL_API_KEY"`
	// MailFrom is the From address for outgoing mail.
	MailFrom string `mapstructure:"MAIL_FROM"`

	// TwoFAEnabled forces an email 2FA challenge for every login, regardless of the per-account flag.
	TwoFAEnabled bool `mapstructure:"TWOFA_ENABLED"`
	// TwoFACodeTTLMin is the 2FA code lifetime in minutes (default 5).
	TwoFACodeTTLMin int `mapstructure:"TWOFA_CODE_TTL_MIN"`
	// TwoFACodeLength is the number of digits in a 2FA code (default 6).
	TwoFACodeLength int `mapstructure:"TWOFA_CODE_LENGTH"`
	// TwoFAMaxAttempts locks a challenge after this many failed verifications (0 disables the lockout).
	TwoFAMaxAttempts int `mapstructure:"TWOFA_MAX_ATTEMPTS"`
	// TwoFAReturnToClient when true enables dev 2FA mode: the latest code is kept in memory for
	// GET /dev/twofa/code. Must not be true when Env is production (startup error).
	TwoFAReturnToClient bool `mapstructure:"TWOFA_RETURN_TO_CLIENT"`

	// CORSOrigins is a comma-separated list of allowed browser origins.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// ServiceName is the service name reported to telemetry.
	ServiceName string `mapstructure:"SERVICE_NAME"`
	// TelemetryEndpoint is the OTLP HTTP endpoint for traces. Empty disables tracing.
	TelemetryEndpoint string `mapstructure:"OTEL_EXPORTER_ENDPOINT"`
	// TelemetryInsecure disables TLS for the OTLP exporter (local collectors).
	TelemetryInsecure bool `mapstructure:"OTEL_EXPORTER_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_SESSION_TTL", "8h")
	v.SetDefault("SETPW_TOKEN_TTL", "24h")
	v.SetDefault("FRONTEND_URL", "http://localhost:4200")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("MAIL_API_URL", "")
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("MAIL_FROM", "KidsMin Portal <no-reply@localhost>")
	v.SetDefault("TWOFA_ENABLED", true)
	v.SetDefault("TWOFA_CODE_TTL_MIN", 5)
	v.SetDefault("TWOFA_CODE_LENGTH", 6)
	v.SetDefault("TWOFA_MAX_ATTEMPTS", 5)
	v.SetDefault("TWOFA_RETURN_TO_CLIENT", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:4200")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("SERVICE_NAME", "kidsmin-auth")
	v.SetDefault("OTEL_EXPORTER_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	if cfg.TwoFAReturnToClient && cfg.Env == "production" {
		return nil, errors.New("config: TWOFA_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.TwoFACodeLength < 4 || cfg.TwoFACodeLength > 10 {
		return nil, errors.New("config: TWOFA_CODE_LENGTH must be between 4 and 10")
	}
	if cfg.TwoFACodeTTLMin <= 0 {
		cfg.TwoFACodeTTLMin = 5
	}
	if cfg.TwoFAMaxAttempts < 0 {
		return nil, errors.New("config: TWOFA_MAX_ATTEMPTS must not be negative")
	}

	return &cfg, nil
}

// SessionTTL parses JWTSessionTTL as a time.Duration. Returns 8h if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTSessionTTL)
	if err != nil || d <= 0 {
		return 8 * time.Hour
	}
	return d
}

// SetPasswordTokenTTL parses SetPasswordTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SetPasswordTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.SetPasswordTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// TwoFACodeTTL returns the 2FA code lifetime as a duration.
func (c *Config) TwoFACodeTTL() time.Duration {
	return time.Duration(c.TwoFACodeTTLMin) * time.Minute
}

// CORSOriginsList returns the allowed origins from the comma-separated config.
func (c *Config) CORSOriginsList() []string {
	if c == nil || c.CORSOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
