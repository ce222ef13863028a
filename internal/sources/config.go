package sources

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	Mode    Mode
}

func LoadConfigFromEnv() (*Config, error) {
	baseURL := os.Getenv("SOURCES_API")
	if baseURL == "" {
		return nil, errors.New("SOURCES_API environment variable not set")
	}

	cfg := &Config{BaseURL: baseURL, Timeout: defaultTimeout, Mode: Permissive}
	if v, err := time.ParseDuration(os.Getenv("SOURCES_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	switch mode := Mode(os.Getenv("SOURCES_MODE")); mode {
	case "":
	case Permissive, Strict:
		cfg.Mode = mode
	default:
		return nil, fmt.Errorf("invalid SOURCES_MODE %q, expected %q or %q", mode, Permissive, Strict)
	}
	return cfg, nil
}
