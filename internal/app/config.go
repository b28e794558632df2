package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/session"
)

type Config struct {
	Port          string
	APIBaseURL    string
	APITimeout    time.Duration
	RedisAddr     string
	KafkaBroker   string
	SessionTTL    time.Duration
	SecureCookies bool
}

// ConfigFromEnv reads the console settings from the environment. Only the
// backend location matters for a local run; redis and kafka are optional.
func ConfigFromEnv() (Config, error) {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:        getenv("PORT"),
		APIBaseURL:  getenv("HRMS_API_BASE_URL"),
		APITimeout:  apiclient.DefaultTimeout,
		RedisAddr:   getenv("REDIS_ADDR"),
		KafkaBroker: getenv("KAFKA_BROKER"),
		SessionTTL:  session.DefaultTTL,
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = apiclient.DefaultBaseURL
	}

	if raw := getenv("HRMS_API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("HRMS_API_TIMEOUT: invalid duration %q", raw)
		}
		cfg.APITimeout = d
	}
	if raw := getenv("SESSION_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL: invalid duration %q", raw)
		}
		cfg.SessionTTL = d
	}
	if raw := getenv("SECURE_COOKIES"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SECURE_COOKIES: %w", err)
		}
		cfg.SecureCookies = b
	}
	return cfg, nil
}
