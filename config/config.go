package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultJWTSecret is the documented development secret. Running with it is
// allowed but logged as insecure.
const DefaultJWTSecret = "default-secret-key"

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Log       LogConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
	// Debug echoes internal error details to API clients.
	Debug bool
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	TLSCertFile     string
	TLSKeyFile      string
	TLSClientCAFile string
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type DatabaseConfig struct {
	// Driver selects operator and audit storage: postgres or memory.
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	Pool     PoolConfig
	// Queries slower than this are logged at warn.
	SlowQuery time.Duration
}

type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// DSN renders the libpq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	pairs := []string{
		"host=" + d.Host,
		fmt.Sprintf("port=%d", d.Port),
		"user=" + d.User,
		"password=" + d.Password,
		"dbname=" + d.Name,
		"sslmode=" + d.SSLMode,
		"TimeZone=UTC",
	}
	return strings.Join(pairs, " ")
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
}

func (j JWTConfig) UsesInsecureDefault() bool {
	return j.Secret == DefaultJWTSecret
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

type RateLimitConfig struct {
	Enabled bool
	// Per client IP
	RequestsPerSecond float64
	BurstSize         int
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

func Load() (*Config, error) {
	env := newEnvReader()
	cfg := load(env)

	errs := env.problems
	errs = append(errs, cfg.problems()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return cfg, nil
}

func load(env *envReader) *Config {
	var cfg Config

	cfg.App = AppConfig{
		Name:        env.str("APP_NAME", "storefront-api"),
		Environment: env.str("APP_ENV", "development"),
		Version:     env.str("APP_VERSION", "0.0.0"),
		Debug:       env.flag("DEBUG"),
	}

	cfg.Server = ServerConfig{
		Host:            env.str("SERVER_HOST", "0.0.0.0"),
		Port:            env.int("SERVER_PORT", 8080),
		ReadTimeout:     env.duration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    env.duration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     env.duration("SERVER_IDLE_TIMEOUT", time.Minute),
		ShutdownTimeout: env.duration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxBodyBytes:    int64(env.int("SERVER_MAX_BODY_BYTES", 1<<20)),
		TLSCertFile:     env.str("TLS_CERT_FILE", ""),
		TLSKeyFile:      env.str("TLS_KEY_FILE", ""),
		TLSClientCAFile: env.str("TLS_CLIENT_CA_FILE", ""),
	}

	cfg.Database = DatabaseConfig{
		Driver:   env.str("STORAGE_DRIVER", StoragePostgres),
		Host:     env.str("DB_HOST", "localhost"),
		Port:     env.int("DB_PORT", 5432),
		Name:     env.str("DB_NAME", "storefront"),
		User:     env.str("DB_USER", "storefront"),
		Password: env.str("DB_PASSWORD", ""),
		SSLMode:  env.str("DB_SSLMODE", "require"),
		Pool: PoolConfig{
			MaxOpen:     env.int("DB_MAX_OPEN_CONNS", 25),
			MaxIdle:     env.int("DB_MAX_IDLE_CONNS", 10),
			MaxLifetime: env.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime: env.duration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		SlowQuery: env.duration("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
	}

	cfg.JWT = JWTConfig{
		Secret:         env.str("JWT_SECRET", DefaultJWTSecret),
		AccessTokenTTL: env.duration("JWT_ACCESS_TTL", time.Hour),
		Issuer:         env.str("JWT_ISSUER", "storefront-api"),
	}

	cfg.Log = LogConfig{
		Level:      env.str("LOG_LEVEL", "info"),
		Format:     env.str("LOG_FORMAT", "json"),
		OutputPath: env.str("LOG_OUTPUT", "stdout"),
	}

	cfg.Tracing = TracingConfig{
		Enabled:     env.bool("TRACING_ENABLED", false),
		ServiceName: env.str("TRACING_SERVICE_NAME", "storefront-api"),
		Endpoint:    env.str("OTLP_ENDPOINT", "otel-collector:4318"),
		SampleRate:  env.float("TRACING_SAMPLE_RATE", 0.1),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:           env.bool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond: env.float("RATE_LIMIT_RPS", 100),
		BurstSize:         env.int("RATE_LIMIT_BURST", 200),
	}

	cfg.Metrics = MetricsConfig{
		Enabled:   env.bool("METRICS_ENABLED", true),
		Namespace: env.str("METRICS_NAMESPACE", "storefront"),
	}

	return &cfg
}

// problems lists settings that are individually parseable but unusable
// together or in the current environment. The insecure default JWT secret
// is not one of them; the auth layer warns about it instead.
func (c *Config) problems() []string {
	var out []string
	prod := c.App.Environment == "production"

	switch {
	case c.JWT.Secret == "":
		out = append(out, "JWT_SECRET must not be empty")
	case prod && !c.JWT.UsesInsecureDefault() && len(c.JWT.Secret) < 32:
		out = append(out, "JWT_SECRET must be at least 32 characters in production")
	}

	switch c.Database.Driver {
	case StoragePostgres:
		if c.Database.Password == "" && c.App.Environment != "development" {
			out = append(out, "DB_PASSWORD is required in non-development environments")
		}
		if prod && c.Database.SSLMode == "disable" {
			out = append(out, "DB_SSLMODE=disable is not allowed in production")
		}
	case StorageMemory:
	default:
		out = append(out, fmt.Sprintf("STORAGE_DRIVER must be %q or %q", StoragePostgres, StorageMemory))
	}

	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		out = append(out, "TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	if rl := c.RateLimit; rl.Enabled && (rl.RequestsPerSecond <= 0 || rl.BurstSize <= 0) {
		out = append(out, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return out
}
