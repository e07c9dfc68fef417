// Package wms implements the WarehouseClient port against the Infoplus WMS
// HTTP API.
package wms

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds configuration for the Infoplus WMS API integration.
type Config struct {
	// Host is the warehouse account host, e.g. "acme.infopluswms.com"
	Host string
	// APIKey is the account API key sent with every request
	APIKey string
	// BaseURL overrides the derived API base URL, mainly for tests
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// apiBasePath is the versioned API prefix on the warehouse host.
const apiBasePath = "/infoplus-wms/api/v1.0"

// Errors for WMS configuration
var (
	ErrConfigMissingHost   = errors.New("wms: host is required")
	ErrConfigMissingAPIKey = errors.New("wms: API key is required")
)

// NewConfig creates a new WMS configuration with defaults.
func NewConfig(host, apiKey string) *Config {
	return &Config{
		Host:           host,
		APIKey:         apiKey,
		TimeoutSeconds: 30,
	}
}

// Validate validates the WMS configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" && c.BaseURL == "" {
		return ErrConfigMissingHost
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	return nil
}

// APIBaseURL returns the root URL all API paths are appended to.
func (c *Config) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s%s", c.Host, apiBasePath)
}

// MaskedAPIKey returns the API key with every character replaced, preserving
// only its length. Used when logging request headers.
func (c *Config) MaskedAPIKey() string {
	return strings.Repeat("*", len(c.APIKey))
}
