package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Media    MediaConfig    `mapstructure:"media"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CookieDomain    string        `mapstructure:"cookie_domain"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// Comma separated in the environment, see Load.
	RawOrigins     string   `mapstructure:"allowed_origins"`
	ClientURL      string   `mapstructure:"client_url"`
	AllowedOrigins []string `mapstructure:"-"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres mysql sqlite"`
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`

	// Users allowed to delete products.
	RawAdminIDs string `mapstructure:"admin_ids"`
	AdminIDs    []uint `mapstructure:"-"`
}

type MediaConfig struct {
	UploadDir      string `mapstructure:"upload_dir" validate:"required"`
	URLPrefix      string `mapstructure:"url_prefix" validate:"required,startswith=/"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"gt=0"`
	Quality        int    `mapstructure:"quality" validate:"gte=1,lte=100"`
}
