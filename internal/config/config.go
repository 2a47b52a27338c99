package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName          = "coursegate"
	defaultAppEnv           = "development"
	defaultPort             = "6969"
	defaultOpsPort          = "9090"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultLoginRateLimit   = 5
	defaultPasswordHash     = HashSHA256
	defaultPBKDF2Iterations = 210_000
	defaultRetryAttempts    = 3
	defaultRetryBackoff     = 50 * time.Millisecond
	defaultCORSOrigins      = "*"
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
)

// Supported password digest schemes.
const (
	HashSHA256 = "sha256"
	HashPBKDF2 = "pbkdf2"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	OpsPort          string
	LogLevel         string
	DatabaseURL      string
	RedisURL         string
	RunMigrations    bool
	ShutdownPeriod   time.Duration
	IdempotencyTTL   time.Duration
	LoginRateLimit   int
	PasswordHash     string
	PasswordPepper   string
	PBKDF2Iterations int
	RetryAttempts    int
	RetryBackoff     time.Duration
	CORSAllowOrigins string
}

// Load reads an optional .env file and then the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv populates a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:             getEnv("PORT", defaultPort),
		OpsPort:          getEnv("OPS_PORT", defaultOpsPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ShutdownPeriod:   defaultShutdownDelay,
		IdempotencyTTL:   defaultIdempotencyTTL,
		PasswordHash:     strings.ToLower(getEnv("PASSWORD_HASH", defaultPasswordHash)),
		PasswordPepper:   os.Getenv("PASSWORD_PEPPER"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", defaultCORSOrigins),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.RetryBackoff, err = durationEnv("", "STORE_RETRY_BACKOFF", defaultRetryBackoff); err != nil {
		return Config{}, err
	}
	if cfg.LoginRateLimit, err = intEnv("LOGIN_RATE_LIMIT", defaultLoginRateLimit); err != nil {
		return Config{}, err
	}
	if cfg.PBKDF2Iterations, err = intEnv("PBKDF2_ITERATIONS", defaultPBKDF2Iterations); err != nil {
		return Config{}, err
	}
	if cfg.RetryAttempts, err = intEnv("STORE_RETRY_ATTEMPTS", defaultRetryAttempts); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RUN_MIGRATIONS: %w", err)
		}
		cfg.RunMigrations = b
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.PasswordHash {
	case HashSHA256:
	case HashPBKDF2:
		if c.PasswordPepper == "" {
			return fmt.Errorf("PASSWORD_PEPPER must be set when PASSWORD_HASH=%s", HashPBKDF2)
		}
		if c.PBKDF2Iterations <= 0 {
			return fmt.Errorf("PBKDF2_ITERATIONS must be positive")
		}
	default:
		return fmt.Errorf("unsupported PASSWORD_HASH %q", c.PasswordHash)
	}

	if c.RetryAttempts < 1 {
		return fmt.Errorf("STORE_RETRY_ATTEMPTS must be at least 1")
	}

	if c.IsDev() {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	return nil
}

// IsDev reports whether the service runs in a local development mode.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the public listen address in the format Fiber expects.
func (c Config) Address() string {
	return listenAddr(c.Port)
}

// OpsAddress returns the listen address of the health and metrics listener.
func (c Config) OpsAddress() string {
	return listenAddr(c.OpsPort)
}

func listenAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// durationEnv prefers the integer-seconds variable over the Go duration one.
func durationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if secondsKey != "" {
		if v := os.Getenv(secondsKey); v != "" {
			seconds, err := strconv.Atoi(v)
			if err != nil {
				return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
			}
			return time.Duration(seconds) * time.Second, nil
		}
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}
