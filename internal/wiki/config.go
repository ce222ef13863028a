package wiki

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIURL    string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

func LoadConfigFromEnv() (*Config, error) {
	apiURL := os.Getenv("MEDIAWIKI_API")
	if apiURL == "" {
		return nil, errors.New("MEDIAWIKI_API environment variable not set")
	}

	cfg := &Config{
		APIURL:    apiURL,
		Timeout:   defaultTimeout,
		RateLimit: 0,
		Burst:     1,
	}
	if v, err := time.ParseDuration(os.Getenv("MEDIAWIKI_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("MEDIAWIKI_RATE_LIMIT"), 64); err == nil {
		cfg.RateLimit = v
	}
	if v, err := strconv.Atoi(os.Getenv("MEDIAWIKI_RATE_BURST")); err == nil && v > 0 {
		cfg.Burst = v
	}
	return cfg, nil
}
