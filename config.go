package authgate

import (
	"os"
	"strconv"
	"time"
)

// MinSigningSecretBytes is the minimum secret length: 128 bits.
const MinSigningSecretBytes = 16

// DefaultTokenExpiration bounds session tokens and their cookie alike.
const DefaultTokenExpiration = 30 * time.Minute

// BaseConfig is the concrete Config used by cmd/authgate. The signing
// secret is read once at startup and treated as immutable afterwards.
type BaseConfig struct {
	SigningKey      string        `json:"-"`
	TokenExpiration time.Duration `json:"token_expiration"`
	Issuer          string        `json:"issuer"`
	Audience        []string      `json:"audience"`
	ContextKey      string        `json:"context_key"`
	SecureCookie    bool          `json:"secure_cookie"`
	ServerAddr      string        `json:"server_addr"`
	DatabaseDSN     string        `json:"database_dsn"`
}

func (c *BaseConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *BaseConfig) GetTokenExpiration() time.Duration {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c *BaseConfig) GetIssuer() string {
	return c.Issuer
}

func (c *BaseConfig) GetAudience() []string {
	return c.Audience
}

func (c *BaseConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultCookieName
	}
	return c.ContextKey
}

func (c *BaseConfig) GetSecureCookie() bool {
	return c.SecureCookie
}

var _ Config = (*BaseConfig)(nil)

// PersistenceConfig drives the bun persistence client for cmd/authgate.
type PersistenceConfig struct {
	Debug       bool          `json:"debug"`
	Driver      string        `json:"driver"`
	Server      string        `json:"server"`
	Database    string        `json:"database"`
	DSN         string        `json:"dsn"`
	PingTimeout time.Duration `json:"ping_timeout"`
}

func (p *PersistenceConfig) GetDebug() bool {
	return p.Debug
}

func (p *PersistenceConfig) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p *PersistenceConfig) GetServer() string {
	return p.Server
}

func (p *PersistenceConfig) GetDatabase() string {
	return p.Database
}

func (p *PersistenceConfig) GetDSN() string {
	return p.DSN
}

func (p *PersistenceConfig) GetOtelIdentifier() string {
	return ""
}

func (p *PersistenceConfig) GetPingTimeout() time.Duration {
	if p.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return p.PingTimeout
}

// GetPersistence derives the persistence block from the loaded config.
func (c *BaseConfig) GetPersistence() *PersistenceConfig {
	return &PersistenceConfig{
		Driver:   "sqlite",
		DSN:      c.DatabaseDSN,
		Database: c.DatabaseDSN,
		Debug:    envString("AUTHGATE_ENV", "production") == "development",
	}
}

// Validate enforces the startup invariants. A missing or short signing
// secret is fatal, never a runtime condition.
func (c *BaseConfig) Validate() error {
	if len(c.SigningKey) < MinSigningSecretBytes {
		return ErrConfigSigningSecret.WithMetadata(map[string]any{
			"min_bytes": MinSigningSecretBytes,
		})
	}
	return nil
}

// LoadConfig reads configuration from AUTHGATE_* environment variables and
// validates it. Callers must treat an error as fatal and abort startup.
func LoadConfig() (*BaseConfig, error) {
	cfg := &BaseConfig{
		SigningKey:      os.Getenv("AUTHGATE_SIGNING_SECRET"),
		TokenExpiration: envDuration("AUTHGATE_TOKEN_TTL", DefaultTokenExpiration),
		Issuer:          envString("AUTHGATE_ISSUER", "go-authgate"),
		Audience:        []string{envString("AUTHGATE_AUDIENCE", "go-authgate")},
		ContextKey:      envString("AUTHGATE_COOKIE_NAME", DefaultCookieName),
		SecureCookie:    envString("AUTHGATE_ENV", "production") != "development",
		ServerAddr:      envString("AUTHGATE_ADDR", ":8572"),
		DatabaseDSN:     envString("AUTHGATE_DSN", "file:authgate.db?cache=shared"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	if d, err := time.ParseDuration(v); err == nil {
		return d
	}

	// bare numbers read as minutes
	if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
		return time.Duration(mins) * time.Minute
	}

	return def
}
