package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRUST_CONFIG_FILE", "TRUST_ISSUER", "TRUST_ENCRYPTION_KEY", "TRUST_DB_DRIVER",
		"TRUST_DATABASE_FILE", "TRUST_DATABASE_URL", "TRUST_PEPPER_FILE", "TRUST_JWT_SECRET",
		"TRUST_JWT_ISSUER", "TRUST_JWKS_URL", "TRUST_JWKS_REFRESH", "TRUST_REDIS_URL",
		"TRUST_REDIS_STREAM", "TRUST_REDIS_MAX_LEN", "ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT",
		"SHUTDOWN_GRACE_PERIOD", "SUSPICIOUS_SCAN_INTERVAL", "SUSPICIOUS_SCAN_WINDOW",
		"SUSPICIOUS_THRESHOLD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUST_JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "Trust", cfg.Issuer)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "trust.db", cfg.DatabaseFile)
	require.Equal(t, "trust:security-events", cfg.RedisStream)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.ScanInterval)
	require.Equal(t, 24*time.Hour, cfg.ScanWindow)
	require.Equal(t, 5, cfg.SuspiciousThreshold)
	require.Equal(t, "dev", cfg.Env)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "trust.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
issuer = "Example Co"
db_driver = "postgres"
database_url = "postgres://trust@db/trust"
jwks_url = "http://auth/.well-known/jwks.json"
port = 9000
suspicious_scan_window = "48h"
suspicious_threshold = 10
`), 0o600))

	t.Setenv("TRUST_CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("SUSPICIOUS_SCAN_INTERVAL", "30") // bare minutes

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "Example Co", cfg.Issuer)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "postgres://trust@db/trust", cfg.DatabaseURL)
	require.Equal(t, 9100, cfg.Port, "environment wins over the file")
	require.Equal(t, 48*time.Hour, cfg.ScanWindow)
	require.Equal(t, 30*time.Minute, cfg.ScanInterval)
	require.Equal(t, 10, cfg.SuspiciousThreshold)

	// Untouched keys keep their defaults
	require.Equal(t, 5*time.Minute, cfg.JWKSRefreshTime)
}

func TestLoadConfigBadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = = 1"), 0o600))
	t.Setenv("TRUST_CONFIG_FILE", path)

	_, err := LoadConfig()
	require.ErrorContains(t, err, "failed to decode config file")
}

func TestConfigValidate(t *testing.T) {
	base := defaultConfig()
	base.JWTSecret = "s3cret"
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "unknown TRUST_DB_DRIVER"},
		{"postgres without url", func(c *Config) { c.DBDriver = "postgres" }, "TRUST_DATABASE_URL"},
		{"no verifier", func(c *Config) { c.JWTSecret = "" }, "one of TRUST_JWT_SECRET"},
		{"both verifiers", func(c *Config) { c.JWKSURL = "http://auth/jwks" }, "mutually exclusive"},
		{"secret and key file", func(c *Config) {
			c.JWTPublicKeyFile = "/keys/auth.pub"
			c.JWTKeyID = "k1"
		}, "mutually exclusive"},
		{"key file without kid", func(c *Config) {
			c.JWTSecret = ""
			c.JWTPublicKeyFile = "/keys/auth.pub"
		}, "TRUST_JWT_KEY_ID"},
		{"prod without key", func(c *Config) { c.Env = "prod" }, "TRUST_ENCRYPTION_KEY"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "invalid PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	static := base
	static.JWTSecret = ""
	static.JWTPublicKeyFile = "/keys/auth.pub"
	static.JWTKeyID = "k1"
	require.NoError(t, static.Validate())

	prod := base
	prod.Env = "prod"
	prod.EncryptionKey = "k"
	require.NoError(t, prod.Validate())
}
