package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// Development frontends.
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	envBindings = map[string][]string{
		"server.port":                {"PORT"},
		"server.log_level":           {"LOG_LEVEL"},
		"server.cookie_domain":       {"DOMAIN"},
		"server.cookie_secure":       {"COOKIE_SECURE"},
		"server.shutdown_timeout":    {"SHUTDOWN_TIMEOUT"},
		"server.allowed_origins":     {"ALLOWED_ORIGINS"},
		"server.client_url":          {"CLIENT_URL", "HOST"},
		"database.driver":            {"DB_DRIVER"},
		"database.url":               {"DATABASE_URL"},
		"database.max_open_conns":    {"DB_MAX_OPEN_CONNS"},
		"database.max_idle_conns":    {"DB_MAX_IDLE_CONNS"},
		"database.conn_max_lifetime": {"DB_CONN_MAX_LIFETIME"},
		"auth.jwt_secret":            {"JWT_SECRET"},
		"auth.token_ttl":             {"TOKEN_TTL"},
		"auth.admin_ids":             {"ADMIN_IDS"},
		"media.upload_dir":           {"UPLOAD_DIR"},
		"media.url_prefix":           {"MEDIA_URL_PREFIX"},
		"media.max_upload_bytes":     {"MAX_UPLOAD_BYTES"},
		"media.quality":              {"MEDIA_QUALITY"},
	}
)

// Load reads configuration from an optional .env file, an optional
// config.yaml in the working directory and the process environment.
// Environment variables take precedence over the config file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("auth.token_ttl", 168*time.Hour)

	v.SetDefault("media.upload_dir", "uploads")
	v.SetDefault("media.url_prefix", "/media")
	v.SetDefault("media.max_upload_bytes", 10<<20)
	v.SetDefault("media.quality", 80)
}

func (c *Config) finalize() error {
	c.Server.LogLevel = strings.ToLower(strings.TrimSpace(c.Server.LogLevel))
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Media.URLPrefix = "/" + strings.Trim(c.Media.URLPrefix, "/")

	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if c.Server.ClientURL != "" {
		origins = append(origins, strings.TrimSpace(c.Server.ClientURL))
	}

	origins = append(origins, splitList(c.Server.RawOrigins)...)
	c.Server.AllowedOrigins = origins

	ids, err := ParseAdminIDs(c.Auth.RawAdminIDs)
	if err != nil {
		return err
	}
	c.Auth.AdminIDs = ids

	return nil
}

// ParseAdminIDs parses a comma separated list of user ids.
func ParseAdminIDs(raw string) ([]uint, error) {
	var ids []uint

	for _, item := range splitList(raw) {
		id, err := strconv.ParseUint(item, 10, 32)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid admin id %q", item)
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

func splitList(raw string) []string {
	var out []string

	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
