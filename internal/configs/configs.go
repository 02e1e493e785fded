package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	FeedLocal = "local"
	FeedRedis = "redis"
)

type Config struct {
	AppHost                string `mapstructure:"APP_HOST"`
	AppPort                string `mapstructure:"APP_PORT"`
	DatabaseDriver         string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN            string `mapstructure:"DATABASE_DSN"`
	RedisHost              string `mapstructure:"REDIS_HOST"`
	RedisPort              string `mapstructure:"REDIS_PORT"`
	FeedDriver             string `mapstructure:"FEED_DRIVER"`
	FeedChannel            string `mapstructure:"FEED_CHANNEL"`
	RateLimit              int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	JWTSecret              string `mapstructure:"JWT_SECRET"`
	TokenTTLHours          int    `mapstructure:"TOKEN_TTL_HOURS"`
	ToastTTLMillis         int    `mapstructure:"TOAST_TTL_MS"`
	BulkWorkers            int    `mapstructure:"BULK_WORKERS"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFile                string `mapstructure:"LOG_FILE"`
}

var defaults = map[string]any{
	"APP_HOST":                 "127.0.0.1",
	"APP_PORT":                 "8080",
	"DATABASE_DRIVER":          DriverSQLite,
	"DATABASE_DSN":             "tasks.db",
	"REDIS_HOST":               "127.0.0.1",
	"REDIS_PORT":               "6379",
	"FEED_DRIVER":              FeedLocal,
	"FEED_CHANNEL":             "task-tracker",
	"RATE_LIMIT_PER_MINUTE":    60,
	"SHUTDOWN_TIMEOUT_SECONDS": 20,
	"JWT_SECRET":               "",
	"TOKEN_TTL_HOURS":          24,
	"TOAST_TTL_MS":             3000,
	"BULK_WORKERS":             4,
	"LOG_LEVEL":                "info",
	"LOG_FILE":                 "",
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(cfg.DatabaseDriver)
	cfg.FeedDriver = strings.ToLower(cfg.FeedDriver)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	var errs []error
	if cfg.AppHost == "" || cfg.AppPort == "" {
		errs = append(errs, errors.New("APP_HOST and APP_PORT must not be empty"))
	}
	if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverMySQL {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %s or %s", DriverSQLite, DriverMySQL))
	}
	if cfg.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must not be empty"))
	}
	if cfg.FeedDriver != FeedLocal && cfg.FeedDriver != FeedRedis {
		errs = append(errs, fmt.Errorf("FEED_DRIVER must be %s or %s", FeedLocal, FeedRedis))
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}
	if cfg.TokenTTLHours <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL_HOURS must be greater than 0"))
	}
	if cfg.ToastTTLMillis <= 0 {
		errs = append(errs, errors.New("TOAST_TTL_MS must be greater than 0"))
	}
	if cfg.BulkWorkers <= 0 {
		errs = append(errs, errors.New("BULK_WORKERS must be greater than 0"))
	}
	return errors.Join(errs...)
}

func (c Config) AppURL() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c Config) ToastTTL() time.Duration {
	return time.Duration(c.ToastTTLMillis) * time.Millisecond
}
