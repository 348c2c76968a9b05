package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	AppEnv    string `mapstructure:"APP_ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port    string        `mapstructure:"SERVER_PORT"`
	Timeout time.Duration `mapstructure:"SERVER_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver  string        `mapstructure:"STORAGE_DRIVER"`
	URI     string        `mapstructure:"MONGODB_URI"`
	Name    string        `mapstructure:"MONGODB_DATABASE"`
	Timeout time.Duration `mapstructure:"MONGODB_TIMEOUT"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	TTL      time.Duration `mapstructure:"CACHE_TTL"`
}

type NATSConfig struct {
	URL string `mapstructure:"NATS_URL"`
}

type AuthConfig struct {
	Enabled    bool          `mapstructure:"AUTH_ENABLED"`
	Secret     string        `mapstructure:"JWT_SECRET"`
	Expiration time.Duration `mapstructure:"JWT_EXPIRATION"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	Burst int     `mapstructure:"RATE_LIMIT_BURST"`
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT", 30*time.Second)
	v.SetDefault("STORAGE_DRIVER", StorageMongo)
	v.SetDefault("MONGODB_DATABASE", "blogapi")
	v.SetDefault("MONGODB_TIMEOUT", 10*time.Second)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 10*time.Minute)
	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("JWT_EXPIRATION", 72*time.Hour)
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	var cfg Config

	cfg.AppEnv = v.GetString("APP_ENV")
	cfg.LogLevel = v.GetString("LOG_LEVEL")

	cfg.Server.Port = v.GetString("SERVER_PORT")
	cfg.Server.Timeout = v.GetDuration("SERVER_TIMEOUT")

	cfg.Database.Driver = strings.ToLower(v.GetString("STORAGE_DRIVER"))
	cfg.Database.URI = v.GetString("MONGODB_URI")
	cfg.Database.Name = v.GetString("MONGODB_DATABASE")
	cfg.Database.Timeout = v.GetDuration("MONGODB_TIMEOUT")

	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.TTL = v.GetDuration("CACHE_TTL")

	cfg.NATS.URL = v.GetString("NATS_URL")

	cfg.Auth.Enabled = v.GetBool("AUTH_ENABLED")
	cfg.Auth.Secret = v.GetString("JWT_SECRET")
	cfg.Auth.Expiration = v.GetDuration("JWT_EXPIRATION")

	cfg.RateLimit.RPS = v.GetFloat64("RATE_LIMIT_RPS")
	cfg.RateLimit.Burst = v.GetInt("RATE_LIMIT_BURST")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StorageMongo:
		if c.Database.URI == "" {
			return errors.New("MONGODB_URI must be set when STORAGE_DRIVER is mongo")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Database.Driver)
	}

	if c.Auth.Enabled && c.Auth.Secret == "" {
		return errors.New("JWT_SECRET must be set when AUTH_ENABLED is true")
	}

	return nil
}
