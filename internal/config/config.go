// Package config loads server configuration from environment variables.
//
// Configuration is read once at startup and held immutably for the
// lifetime of the process. The only required value is JINA_API_KEY;
// everything else has a working default.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names
const (
	EnvAPIKey         = "JINA_API_KEY"
	EnvSearchEndpoint = "JINA_SEARCH_ENDPOINT"
	EnvReaderEndpoint = "JINA_READER_ENDPOINT"
	EnvTransport      = "JINA_MCP_TRANSPORT"
	EnvAddr           = "JINA_MCP_ADDR"
	EnvTimeoutSecs    = "JINA_TIMEOUT_SECONDS"
	EnvCacheSize      = "JINA_CACHE_SIZE"
	EnvCacheTTLSecs   = "JINA_CACHE_TTL_SECONDS"
	EnvCachePath      = "JINA_CACHE_PATH"
)

// Defaults
const (
	DefaultSearchEndpoint = "https://s.jina.ai/"
	DefaultReaderEndpoint = "https://r.jina.ai/"
	DefaultAddr           = ":8080"
	DefaultTimeout        = 60 * time.Second
	DefaultCacheSize      = 256
	DefaultCacheTTL       = 24 * time.Hour
)

// Transport values accepted in JINA_MCP_TRANSPORT
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

var (
	// ErrAPIKeyMissing is returned when JINA_API_KEY is not set.
	ErrAPIKeyMissing = errors.New("JINA_API_KEY is not set")
	// ErrInvalidTransport is returned for an unrecognized transport name.
	ErrInvalidTransport = errors.New("invalid transport")
)

// Config holds all server settings. Built once at startup; never mutated.
type Config struct {
	APIKey         string
	SearchEndpoint string
	ReaderEndpoint string
	Transport      string
	Addr           string
	Timeout        time.Duration
	CacheSize      int
	CacheTTL       time.Duration
	CachePath      string
}

// FromEnv builds a Config from the process environment.
// A missing API key is a startup failure, not a per-call one.
func FromEnv() (*Config, error) {
	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	cfg := &Config{
		APIKey:         apiKey,
		SearchEndpoint: getStringDefault(EnvSearchEndpoint, DefaultSearchEndpoint),
		ReaderEndpoint: getStringDefault(EnvReaderEndpoint, DefaultReaderEndpoint),
		Transport:      getStringDefault(EnvTransport, TransportStdio),
		Addr:           getStringDefault(EnvAddr, DefaultAddr),
		CachePath:      os.Getenv(EnvCachePath),
	}

	switch cfg.Transport {
	case TransportStdio, TransportSSE:
	default:
		return nil, fmt.Errorf("%w: %q (expected %q or %q)",
			ErrInvalidTransport, cfg.Transport, TransportStdio, TransportSSE)
	}

	timeout, err := getSecondsDefault(EnvTimeoutSecs, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout

	cacheTTL, err := getSecondsDefault(EnvCacheTTLSecs, DefaultCacheTTL)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = cacheTTL

	cacheSize, err := getIntDefault(EnvCacheSize, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	cfg.CacheSize = cacheSize

	return cfg, nil
}

func getStringDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getIntDefault(key string, defaultValue int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: expected integer, got %q", key, val)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", key, n)
	}
	return n, nil
}

func getSecondsDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	secs, err := getIntDefault(key, int(defaultValue/time.Second))
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
