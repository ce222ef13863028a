package es

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

// retryStatuses are the responses worth retrying during a sync run.
var retryStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

const maxRetries = 3

type ClientConfig struct {
	Addresses []string
	// IndexPrefix is prepended to every collection name: "<prefix>-<collection>".
	IndexPrefix string
	Username    string
	Password    string
}

func clientConfig(config ClientConfig) elasticsearch.Config {
	cfg := elasticsearch.Config{
		Addresses:           config.Addresses,
		RetryOnStatus:       retryStatuses,
		MaxRetries:          maxRetries,
		CompressRequestBody: true,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}
	return cfg
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	return elasticsearch.NewTypedClient(clientConfig(config))
}
