package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ENV", "LOG_LEVEL", "SERVER_PORT", "SERVER_TIMEOUT", "STORAGE_DRIVER", "MONGODB_URI",
	"MONGODB_DATABASE", "MONGODB_TIMEOUT", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
	"NATS_URL", "AUTH_ENABLED", "JWT_SECRET", "JWT_EXPIRATION", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

// clearEnv blanks every key; viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, StorageMongo, cfg.Database.Driver)
	assert.Equal(t, "blogapi", cfg.Database.Name)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 72*time.Hour, cfg.Auth.Expiration)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StorageMemory, cfg.Database.Driver)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"mongo without uri", Config{Database: DatabaseConfig{Driver: StorageMongo}}, false},
		{"unknown driver", Config{Database: DatabaseConfig{Driver: "sqlite"}}, false},
		{"auth without secret", Config{Database: DatabaseConfig{Driver: StorageMemory}, Auth: AuthConfig{Enabled: true}}, false},
		{"memory without auth", Config{Database: DatabaseConfig{Driver: StorageMemory}}, true},
		{"mongo with auth", Config{
			Database: DatabaseConfig{Driver: StorageMongo, URI: "mongodb://db"},
			Auth:     AuthConfig{Enabled: true, Secret: "s"},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
