package orion

import (
	"net/http"
	"time"
)

// SessionOption represents an option for configuring a broker session
type SessionOption func(*SessionConfig)

// SessionConfig holds the configuration for a broker session
type SessionConfig struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *SessionConfig {
	return &SessionConfig{
		Timeout:   30 * time.Second,
		UserAgent: "entpurge/1.0",
	}
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) SessionOption {
	return func(c *SessionConfig) {
		c.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) SessionOption {
	return func(c *SessionConfig) {
		c.HTTPClient = httpClient
	}
}

// WithUserAgent sets a custom user agent
func WithUserAgent(userAgent string) SessionOption {
	return func(c *SessionConfig) {
		c.UserAgent = userAgent
	}
}
