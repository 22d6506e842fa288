package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aussiebroadwan/trust/internal/trust/notify"
)

type Config struct {
	Issuer        string `toml:"issuer"`         // TOTP issuer shown in authenticator apps (default: Trust)
	EncryptionKey string `toml:"encryption_key"` // Required outside dev: key material for secrets at rest

	DBDriver     string `toml:"db_driver"`     // sqlite or postgres (default: sqlite)
	DatabaseFile string `toml:"database_file"` // SQLite file (default: ./trust.db)
	DatabaseURL  string `toml:"database_url"`  // Postgres connection URL
	PepperFile   string `toml:"pepper_file"`   // Password pepper shared with the auth service (default: ./pepper)

	// Exactly one of JWTSecret, JWKSURL or JWTPublicKeyFile selects how access
	// tokens are verified
	JWTSecret        string        `toml:"jwt_secret"`
	JWTIssuer        string        `toml:"jwt_issuer"`
	JWKSURL          string        `toml:"jwks_url"`
	JWKSRefreshTime  time.Duration `toml:"jwks_refresh"`        // default: 5m
	JWTPublicKeyFile string        `toml:"jwt_public_key_file"` // PEM Ed25519 key of the auth service
	JWTKeyID         string        `toml:"jwt_key_id"`          // kid the static key is registered under

	RedisURL    string `toml:"redis_url"`     // Optional: audit fan-out stream
	RedisStream string `toml:"redis_stream"`  // default: trust:security-events
	RedisMaxLen int64  `toml:"redis_max_len"` // default: 100000, 0 disables trimming

	Env                 string        `toml:"env"`        // dev, staging, prod (default: dev)
	LogLevel            string        `toml:"log_level"`  // default: info
	LogFormat           string        `toml:"log_format"` // json or text (default: json)
	Port                int           `toml:"port"`       // default: 8080
	ShutdownGracePeriod time.Duration `toml:"shutdown_grace_period"`

	ScanInterval        time.Duration `toml:"suspicious_scan_interval"` // default: 15m
	ScanWindow          time.Duration `toml:"suspicious_scan_window"`   // default: 24h
	SuspiciousThreshold int           `toml:"suspicious_threshold"`     // default: 5
}

func defaultConfig() Config {
	return Config{
		Issuer:              "Trust",
		DBDriver:            "sqlite",
		DatabaseFile:        "trust.db",
		PepperFile:          "pepper",
		JWKSRefreshTime:     5 * time.Minute,
		RedisStream:         notify.DefaultStream,
		RedisMaxLen:         100_000,
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 10 * time.Second,
		ScanInterval:        15 * time.Minute,
		ScanWindow:          24 * time.Hour,
		SuspiciousThreshold: 5,
	}
}

// LoadConfig builds the configuration from defaults, then the TOML file named
// by TRUST_CONFIG_FILE if set, then environment variables.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("TRUST_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	cfg = cfg.withEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) withEnv() Config {
	cfg.Issuer = getEnvOrDefault("TRUST_ISSUER", cfg.Issuer)
	cfg.EncryptionKey = getEnvOrDefault("TRUST_ENCRYPTION_KEY", cfg.EncryptionKey)
	cfg.DBDriver = getEnvOrDefault("TRUST_DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseFile = getEnvOrDefault("TRUST_DATABASE_FILE", cfg.DatabaseFile)
	cfg.DatabaseURL = getEnvOrDefault("TRUST_DATABASE_URL", cfg.DatabaseURL)
	cfg.PepperFile = getEnvOrDefault("TRUST_PEPPER_FILE", cfg.PepperFile)
	cfg.JWTSecret = getEnvOrDefault("TRUST_JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnvOrDefault("TRUST_JWT_ISSUER", cfg.JWTIssuer)
	cfg.JWKSURL = getEnvOrDefault("TRUST_JWKS_URL", cfg.JWKSURL)
	cfg.JWKSRefreshTime = getEnvDurationOrDefault("TRUST_JWKS_REFRESH", cfg.JWKSRefreshTime)
	cfg.JWTPublicKeyFile = getEnvOrDefault("TRUST_JWT_PUBLIC_KEY_FILE", cfg.JWTPublicKeyFile)
	cfg.JWTKeyID = getEnvOrDefault("TRUST_JWT_KEY_ID", cfg.JWTKeyID)
	cfg.RedisURL = getEnvOrDefault("TRUST_REDIS_URL", cfg.RedisURL)
	cfg.RedisStream = getEnvOrDefault("TRUST_REDIS_STREAM", cfg.RedisStream)
	cfg.RedisMaxLen = int64(getEnvIntOrDefault("TRUST_REDIS_MAX_LEN", int(cfg.RedisMaxLen)))
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.ScanInterval = getEnvDurationOrDefault("SUSPICIOUS_SCAN_INTERVAL", cfg.ScanInterval)
	cfg.ScanWindow = getEnvDurationOrDefault("SUSPICIOUS_SCAN_WINDOW", cfg.ScanWindow)
	cfg.SuspiciousThreshold = getEnvIntOrDefault("SUSPICIOUS_THRESHOLD", cfg.SuspiciousThreshold)
	return cfg
}

// Validate reports configuration that cannot start the service.
func (cfg Config) Validate() error {
	var errs []error

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("TRUST_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TRUST_DB_DRIVER %q", cfg.DBDriver))
	}

	verifiers := 0
	for _, v := range []string{cfg.JWTSecret, cfg.JWKSURL, cfg.JWTPublicKeyFile} {
		if v != "" {
			verifiers++
		}
	}
	switch {
	case verifiers == 0:
		errs = append(errs, errors.New("one of TRUST_JWT_SECRET, TRUST_JWKS_URL or TRUST_JWT_PUBLIC_KEY_FILE is required"))
	case verifiers > 1:
		errs = append(errs, errors.New("TRUST_JWT_SECRET, TRUST_JWKS_URL and TRUST_JWT_PUBLIC_KEY_FILE are mutually exclusive"))
	}
	if cfg.JWTPublicKeyFile != "" && cfg.JWTKeyID == "" {
		errs = append(errs, errors.New("TRUST_JWT_KEY_ID is required with TRUST_JWT_PUBLIC_KEY_FILE"))
	}

	if cfg.EncryptionKey == "" && cfg.Env != "dev" {
		errs = append(errs, errors.New("TRUST_ENCRYPTION_KEY is required outside dev"))
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", cfg.Port))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
