package storefront

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config models a YAML configuration document for a storefront deployment.
type Config struct {
	Listen   string        `json:"listen" yaml:"listen"`
	BasePath string        `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	Catalog  CatalogConfig `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Storage  StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	Auth     AuthConfig    `json:"auth,omitempty" yaml:"auth,omitempty"`
	Search   SearchConfig  `json:"search,omitempty" yaml:"search,omitempty"`
	Source   string        `json:"-" yaml:"-"`
}

// CatalogConfig points at the remote product source.
type CatalogConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StorageConfig selects where collections persist.
type StorageConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// AuthConfig carries the admin credentials for the session gate.
type AuthConfig struct {
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// SearchConfig tunes the catalog searcher.
type SearchConfig struct {
	PageSize   int `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	DebounceMS int `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`
}

// ReadConfig loads a configuration file from disk.
func ReadConfig(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("storefront: open config %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("storefront: decode config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// DecodeConfig reads a configuration document from any reader.
func DecodeConfig(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("storefront: config is empty")
		}
		return nil, fmt.Errorf("storefront: parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.BasePath == "" {
		c.BasePath = "/admin"
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = DefaultPageSize
	}
	if c.Search.DebounceMS <= 0 {
		c.Search.DebounceMS = int(DefaultDebounce.Milliseconds())
	}
	if c.Auth.Username == "" {
		c.Auth.Username = "admin"
	}
	if c.Auth.Password == "" {
		c.Auth.Password = "admin"
	}
}

// Validate rejects documents that cannot produce a working deployment.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("storefront: config requires a listen address")
	}
	if c.Search.PageSize < 1 {
		return fmt.Errorf("storefront: search page size must be positive")
	}
	return nil
}
