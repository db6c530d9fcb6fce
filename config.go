package auth

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds process-wide settings for the auth service.
//
// Fields:
//   - ActivationSecret: HMAC secret signing activation tickets.
//   - AccessTokenSecret / RefreshTokenSecret: independent HMAC secrets for
//     the session token pair. All three secrets are required at startup.
//   - AccessTokenTTL / RefreshTokenTTL: session token lifetimes, also used
//     for cookie MaxAge.
//   - BcryptCost: hashing work factor, clamped to DefaultBcryptCost.
type Config struct {
	Addr               string
	ClientOrigin       string
	DatabaseDSN        string
	RedisAddr          string
	ActivationSecret   string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BcryptCost         int
	CookieSecure       bool
	SMTP               SMTPConfig
}

// LoadDefaults populates Config with development defaults. Secrets have no
// defaults: they must come from the environment and their absence is fatal
// at startup, never per request.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.ClientOrigin = "http://localhost:3000"
	c.DatabaseDSN = "file:edusync.db?cache=shared"
	c.RedisAddr = "127.0.0.1:6379"
	c.AccessTokenTTL = DefaultAccessTokenTTL
	c.RefreshTokenTTL = DefaultRefreshTokenTTL
	c.BcryptCost = DefaultBcryptCost
	c.SMTP = SMTPConfig{Port: 587}
}

// LoadConfig builds a Config from defaults overlaid with environment
// variables, then validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseEnv() {
	overlayString(&c.Addr, "ADDR")
	overlayString(&c.ClientOrigin, "CLIENT_URL")
	overlayString(&c.DatabaseDSN, "DATABASE_DSN")
	overlayString(&c.RedisAddr, "REDIS_ADDR")
	overlayString(&c.ActivationSecret, "JWT_SECRET")
	overlayString(&c.AccessTokenSecret, "ACCESS_TOKEN")
	overlayString(&c.RefreshTokenSecret, "REFRESH_TOKEN")
	overlaySeconds(&c.AccessTokenTTL, "ACCESS_TOKEN_EXPIRE")
	overlaySeconds(&c.RefreshTokenTTL, "REFRESH_TOKEN_EXPIRES")
	overlayInt(&c.BcryptCost, "BCRYPT_COST")
	overlayBool(&c.CookieSecure, "COOKIE_SECURE")
	overlayString(&c.SMTP.Host, "SMTP_HOST")
	overlayInt(&c.SMTP.Port, "SMTP_PORT")
	overlayString(&c.SMTP.User, "SMTP_USER")
	overlayString(&c.SMTP.Password, "SMTP_PASS")
	overlayString(&c.SMTP.From, "SMTP_FROM")
}

// Validate enforces startup invariants. Signing secrets are process-wide
// state: a service without them cannot mint a single token, so it must not
// come up at all.
func (c *Config) Validate() error {
	if c.ActivationSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.AccessTokenSecret == "" {
		return errors.New("config: ACCESS_TOKEN secret is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("config: REFRESH_TOKEN secret is required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("config: access and refresh secrets must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	return nil
}

func overlayString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overlaySeconds(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Second
		}
	}
}

func overlayBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
