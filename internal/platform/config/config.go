package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSecret     string
	TokenTTL      time.Duration
	LogLevel      string
	SeedDemoUsers bool
}

// Database configures the Postgres connection. An empty URL selects the
// in-memory stores.
type Database struct {
	URL         string
	AutoMigrate bool
}

// RedisConfig configures the token revocation list. An empty URL keeps
// revocations in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Config struct {
	Server   Server
	Database Database
	Redis    RedisConfig
}

const (
	defaultAddr      = ":3000"
	defaultTokenTTL  = 5 * time.Minute
	defaultJWTSecret = "dev-secret-key-change-in-production"
)

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	return Load("")
}

// Load reads an optional YAML file and overlays environment variables on top
// of it. Environment variables always win.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	addr := envOr(k, "ADDR", "server.addr", "")
	if addr == "" {
		if port := envOr(k, "PORT", "server.port", ""); port != "" {
			addr = ":" + port
		} else {
			addr = defaultAddr
		}
	}

	tokenTTL, err := durationOr(k, "TOKEN_TTL", "server.token_ttl", defaultTokenTTL)
	if err != nil {
		return Config{}, err
	}

	jwtSecret := envOr(k, "JWT_SECRET", "server.jwt_secret", "")
	if jwtSecret == "" {
		// Use a default for development - should be overridden in production
		jwtSecret = defaultJWTSecret
	}

	poolSize, err := intOr(k, "REDIS_POOL_SIZE", "redis.pool_size", 10)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: Server{
			Addr:          addr,
			JWTSecret:     jwtSecret,
			TokenTTL:      tokenTTL,
			LogLevel:      envOr(k, "LOG_LEVEL", "server.log_level", "info"),
			SeedDemoUsers: boolOr(k, "SEED_DEMO_USERS", "server.seed_demo_users", false),
		},
		Database: Database{
			URL:         databaseURL(k),
			AutoMigrate: boolOr(k, "DB_AUTO_MIGRATE", "database.auto_migrate", false),
		},
		Redis: RedisConfig{
			URL:          envOr(k, "REDIS_URL", "redis.url", ""),
			PoolSize:     poolSize,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}, nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles a URL from the
// discrete DB_* variables.
func databaseURL(k *koanf.Koanf) string {
	if u := envOr(k, "DATABASE_URL", "database.url", ""); u != "" {
		return u
	}
	host := envOr(k, "DB_HOST", "database.host", "")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(envOr(k, "DB_USER", "database.user", ""), envOr(k, "DB_PASSWORD", "database.password", "")),
		Host:     net.JoinHostPort(host, envOr(k, "DB_PORT", "database.port", "5432")),
		Path:     "/" + envOr(k, "DB_NAME", "database.name", ""),
		RawQuery: "sslmode=" + envOr(k, "DB_SSLMODE", "database.sslmode", "disable"),
	}
	return u.String()
}

func envOr(k *koanf.Koanf, envKey, fileKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if k.Exists(fileKey) {
		return k.String(fileKey)
	}
	return fallback
}

func boolOr(k *koanf.Koanf, envKey, fileKey string, fallback bool) bool {
	if v := os.Getenv(envKey); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	if k.Exists(fileKey) {
		return k.Bool(fileKey)
	}
	return fallback
}

func intOr(k *koanf.Koanf, envKey, fileKey string, fallback int) (int, error) {
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", envKey, err)
		}
		return n, nil
	}
	if k.Exists(fileKey) {
		return k.Int(fileKey), nil
	}
	return fallback, nil
}

func durationOr(k *koanf.Koanf, envKey, fileKey string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(envKey)
	if raw == "" && k.Exists(fileKey) {
		raw = k.String(fileKey)
	}
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", envKey, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", envKey)
	}
	return d, nil
}
