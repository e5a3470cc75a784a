// Package config reads the process configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	GinMode           string
	LogLevel          slog.Level
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	SessionSecret     string
	SecureCookies     bool
	TokenTTL          time.Duration
	CORSOrigins       []string
	ContentFilterPath string
	AdminEmail        string
	AdminPassword     string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=biolink port=5432 sslmode=disable TimeZone=UTC"

// Load reads a .env file when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	cfg := Config{
		Port:              getString("PORT", "8080"),
		GinMode:           getString("GIN_MODE", "debug"),
		LogLevel:          getLevel("LOG_LEVEL", slog.LevelInfo),
		DatabaseURL:       getString("DATABASE_URL", defaultDSN),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
		SessionSecret:     getString("SESSION_SECRET", "secret_key_change_me"),
		SecureCookies:     getBool("SECURE_COOKIES", false),
		TokenTTL:          getDuration("TOKEN_TTL", 7*24*time.Hour),
		CORSOrigins:       getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		ContentFilterPath: os.Getenv("CONTENT_FILTER_PATH"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}
	return cfg
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return def
	}
	return d
}

func getLevel(key string, def slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level in environment, using default", "key", key, "value", v)
		return def
	}
	return lvl
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
