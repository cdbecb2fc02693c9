// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/crypto/bcrypt"
)

// ErrConfig marks a missing or invalid setting. Startup aborts on it.
var ErrConfig = errors.New("configuration error")

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	testDatabaseName = "storefront_test"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Password  PasswordConfig  `koanf:"password"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Name            string        `koanf:"name"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectRetries  int           `koanf:"connect_retries"`
	RetryDelay      time.Duration `koanf:"retry_delay"`
	LogQueries      bool          `koanf:"log_queries"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Expire time.Duration `koanf:"expire"`
	Issuer string        `koanf:"issuer"`
}

type PasswordConfig struct {
	Pepper     string `koanf:"pepper"`
	SaltRounds int    `koanf:"salt_rounds"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order of precedence. The .env file matching ENV
// is read first and never overrides variables already set.
func Load(configPath string) (*Config, error) {
	loadDotEnv(os.Getenv("ENV"))

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvironment(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(environment string) {
	name := ".env"
	switch environment {
	case EnvTest:
		name = ".env.test"
	case EnvProduction:
		name = ".env.production"
	}

	if _, err := os.Stat(name); err != nil {
		return
	}
	//nolint:errcheck // a malformed .env is surfaced by validate()
	_ = godotenv.Load(name)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "storefront-api",
		"app.version":     "1.0.0",
		"app.environment": EnvDevelopment,

		"server.host":             "0.0.0.0",
		"server.port":             3000,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "storefront",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     20,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30s",
		"database.connect_timeout":    "2s",
		"database.connect_retries":    5,
		"database.retry_delay":        "5s",
		"database.log_queries":        true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,

		"jwt.expire": "24h",
		"jwt.issuer": "storefront-api",

		"password.salt_rounds": bcrypt.DefaultCost,

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "storefront-api",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"ENV":                         "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"DATABASE_URL":                "database.url",
	"POSTGRES_HOST":               "database.host",
	"POSTGRES_PORT":               "database.port",
	"POSTGRES_DB":                 "database.name",
	"POSTGRES_USER":               "database.user",
	"POSTGRES_PASSWORD":           "database.password",
	"POSTGRES_SSLMODE":            "database.ssl_mode",
	"DB_MAX_OPEN_CONNS":           "database.max_open_conns",
	"DB_CONNECT_TIMEOUT":          "database.connect_timeout",
	"DB_CONNECT_RETRIES":          "database.connect_retries",
	"DB_RETRY_DELAY":              "database.retry_delay",
	"REDIS_URL":                   "redis.url",
	"JWT_SECRET":                  "jwt.secret",
	"JWT_EXPIRE":                  "jwt.expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"BCRYPT_PASSWORD":             "password.pepper",
	"SALT_ROUNDS":                 "password.salt_rounds",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"CORS_ALLOWED_ORIGINS":        "cors.allowed_origins",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

// applyEnvironment derives settings that depend on ENV rather than on
// individual variables.
func applyEnvironment(c *Config) {
	switch c.App.Environment {
	case EnvTest:
		c.Database.Name = testDatabaseName
		c.Database.LogQueries = false
	case EnvProduction:
		if c.Database.SSLMode == "" || c.Database.SSLMode == "disable" {
			c.Database.SSLMode = "require"
		}
	}
}

func validate(c *Config) error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required: %w", ErrConfig)
	}

	if c.JWT.Expire <= 0 {
		return fmt.Errorf("jwt.expire must be positive: %w", ErrConfig)
	}

	if c.Password.Pepper == "" {
		return fmt.Errorf("BCRYPT_PASSWORD is required: %w", ErrConfig)
	}

	if c.Password.SaltRounds < bcrypt.MinCost ||
		c.Password.SaltRounds > bcrypt.MaxCost {
		return fmt.Errorf(
			"SALT_ROUNDS must be between %d and %d: %w",
			bcrypt.MinCost,
			bcrypt.MaxCost,
			ErrConfig,
		)
	}

	if c.Database.URL == "" {
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf(
				"POSTGRES_HOST and POSTGRES_DB are required: %w",
				ErrConfig,
			)
		}
		if c.Database.User == "" {
			return fmt.Errorf("POSTGRES_USER is required: %w", ErrConfig)
		}
	}

	if c.Database.ConnectRetries < 0 {
		return fmt.Errorf("DB_CONNECT_RETRIES must not be negative: %w", ErrConfig)
	}

	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("DB_CONNECT_TIMEOUT must be positive: %w", ErrConfig)
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials: %w",
					ErrConfig,
				)
			}
		}
	}

	if c.App.Environment == EnvProduction {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production: %w", ErrConfig)
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive: %w", ErrConfig)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive: %w", ErrConfig)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DSN returns the connection string, preferring an explicit URL.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}

	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// MigrateURL is the DSN with the scheme golang-migrate's pgx driver expects.
func (d *DatabaseConfig) MigrateURL() string {
	dsn := d.DSN()
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
