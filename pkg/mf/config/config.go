package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultURL         = "http://fundamentus.com.br/resultado.php"
	DefaultCacheFile   = "data_cache.json"
	DefaultCacheTTL    = 24 * time.Hour
	DefaultHTTPTimeout = 60 * time.Second
)

// Config holds the runtime settings for the data source and cache.
type Config struct {
	URL         string
	CacheFile   string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

// fileConfig is the YAML shape. Durations use Go syntax ("24h", "60s").
type fileConfig struct {
	URL         string `yaml:"url"`
	CacheFile   string `yaml:"cache_file"`
	CacheTTL    string `yaml:"cache_ttl"`
	HTTPTimeout string `yaml:"http_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		URL:         DefaultURL,
		CacheFile:   DefaultCacheFile,
		CacheTTL:    DefaultCacheTTL,
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

// Load returns the defaults overlaid with values from an optional YAML
// config file. An empty path means defaults only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.URL != "" {
		cfg.URL = fc.URL
	}
	if fc.CacheFile != "" {
		cfg.CacheFile = fc.CacheFile
	}
	if fc.CacheTTL != "" {
		d, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return cfg, fmt.Errorf("parse config %s: cache_ttl: %w", path, err)
		}
		cfg.CacheTTL = d
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return cfg, fmt.Errorf("parse config %s: http_timeout: %w", path, err)
		}
		cfg.HTTPTimeout = d
	}
	return cfg, nil
}
