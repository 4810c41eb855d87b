package config

import "time"

// Identity verification modes.
const (
	IdentityModeGoTrue = "gotrue"
	IdentityModeJWT    = "jwt"
	IdentityModeOIDC   = "oidc"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Identity IdentityConfig `mapstructure:"identity" validate:"required"`
	Approval ApprovalConfig `mapstructure:"approval"`
	Events   EventsConfig   `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// RequestTimeout bounds the whole middleware and handler chain of a request.
	RequestTimeout     time.Duration `mapstructure:"request_timeout"      validate:"gt=0"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// AutoMigrate applies the embedded schema migrations on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// IdentityConfig describes the external identity provider.
//
// URL and ServiceRoleKey are always required because the signup saga creates
// and deletes identities through the provider's admin API. Mode selects how
// bearer tokens are verified on gated requests.
type IdentityConfig struct {
	Mode           string        `mapstructure:"mode"             validate:"required,oneof=gotrue jwt oidc"`
	URL            string        `mapstructure:"url"              validate:"required,url"`
	AnonKey        string        `mapstructure:"anon_key"         validate:"required_if=Mode gotrue"`
	ServiceRoleKey string        `mapstructure:"service_role_key" validate:"required"`
	JWTSecret      string        `mapstructure:"jwt_secret"       validate:"required_if=Mode jwt,omitempty,min=32"`
	OIDCIssuer     string        `mapstructure:"oidc_issuer"      validate:"required_if=Mode oidc,omitempty,url"`
	OIDCClientID   string        `mapstructure:"oidc_client_id"   validate:"required_if=Mode oidc"`
	Timeout        time.Duration `mapstructure:"timeout"          validate:"gt=0"`
}

// ApprovalConfig controls the optional approval cache.
// A zero CacheTTL disables caching.
type ApprovalConfig struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"      validate:"gte=0"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
}

// EventsConfig controls where operational events are published.
// Without a NATS URL events are only logged.
type EventsConfig struct {
	NATSURL       string `mapstructure:"nats_url"       validate:"omitempty,url"`
	SubjectPrefix string `mapstructure:"subject_prefix" validate:"required"`
}
