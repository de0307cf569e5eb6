// Package config loads database connection settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the connection and pool settings for a Driver.
type Config struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string

	// UsePool switches the driver from one dedicated connection to a
	// bounded pool.
	UsePool      bool
	PoolMinConns int
	PoolMaxConns int

	// AcquireTimeout bounds how long a pool-mode acquire waits for a free
	// connection before failing with a ConnectionError.
	AcquireTimeout time.Duration
}

// Load reads configuration from the process environment, with `.env` and
// `.env.local` files layered underneath (`.env.local` wins over `.env`,
// real environment variables win over both). Recognized variables: DB_HOST,
// DB_PORT, DB_NAME, DB_USER, DB_PASSWORD, DB_SSLMODE, DB_POOL, DB_POOL_MIN,
// DB_POOL_MAX, DB_POOL_ACQUIRE_TIMEOUT.
func Load() (*Config, error) {
	// Missing .env files are fine; a malformed one is not worth failing
	// over either, the environment still decides.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := os.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	v := viper.New()
	v.SetEnvPrefix("db")
	v.AutomaticEnv()

	v.SetDefault("host", "localhost")
	v.SetDefault("port", "5432")
	v.SetDefault("name", "postgres")
	v.SetDefault("user", "postgres")
	v.SetDefault("password", "")
	v.SetDefault("sslmode", "disable")
	v.SetDefault("pool", false)
	v.SetDefault("pool_min", 1)
	v.SetDefault("pool_max", 10)
	v.SetDefault("pool_acquire_timeout", "30s")

	cfg := &Config{
		Host:           v.GetString("host"),
		Port:           v.GetString("port"),
		Database:       v.GetString("name"),
		User:           v.GetString("user"),
		Password:       v.GetString("password"),
		SSLMode:        v.GetString("sslmode"),
		UsePool:        v.GetBool("pool"),
		PoolMinConns:   v.GetInt("pool_min"),
		PoolMaxConns:   v.GetInt("pool_max"),
		AcquireTimeout: v.GetDuration("pool_acquire_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the pool sizing knobs.
func (c *Config) Validate() error {
	if c.UsePool {
		if c.PoolMaxConns < 1 {
			return fmt.Errorf("config: pool max connections must be at least 1, got %d", c.PoolMaxConns)
		}
		if c.PoolMinConns < 0 || c.PoolMinConns > c.PoolMaxConns {
			return fmt.Errorf("config: pool min connections %d out of range [0, %d]", c.PoolMinConns, c.PoolMaxConns)
		}
	}
	return nil
}

// DSN renders the lib/pq keyword/value connection string.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.SSLMode)
	if c.Password != "" {
		dsn += " password=" + c.Password
	}
	return dsn
}
