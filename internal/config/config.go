package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "Koleka"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second
	defaultMomoBaseURL   = "https://momo.ndali.biz"
	defaultPollInterval  = 5 * time.Second
	defaultPollTimeout   = 60 * time.Second
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	Momo           MomoConfig
}

// MomoConfig holds the mobile-money gateway settings. An empty APIKey selects
// the simulated payment path instead of calling the provider.
type MomoConfig struct {
	BaseURL          string
	APIKey           string
	PollInterval     time.Duration
	PollTimeout      time.Duration
	FallbackSimulate bool
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		Momo: MomoConfig{
			BaseURL:          getEnv("MOMO_BASE_URL", defaultMomoBaseURL),
			APIKey:           os.Getenv("MOMO_API_KEY"),
			PollInterval:     defaultPollInterval,
			PollTimeout:      defaultPollTimeout,
			FallbackSimulate: true,
		},
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %w", err)
		}
		cfg.Momo.PollInterval = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("POLL_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POLL_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Momo.PollTimeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("MOMO_FALLBACK_SIMULATE"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MOMO_FALLBACK_SIMULATE: %w", err)
		}
		cfg.Momo.FallbackSimulate = enabled
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
