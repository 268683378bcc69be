package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/abdul-hamid-achik/courier/packages/http"
	"github.com/abdul-hamid-achik/courier/packages/metrics"
)

// Config represents the courier configuration
type Config struct {
	Timeout         int               `json:"timeout,omitempty"` // milliseconds
	Cache           string            `json:"cache,omitempty"`   // memory, memcache or none
	MemcacheServers []string          `json:"memcacheServers,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`   // Default headers for all requests
	RateLimit       float64           `json:"rateLimit,omitempty"` // requests per second, 0 disables
	Burst           int               `json:"burst,omitempty"`
	Locale          string            `json:"locale,omitempty"`
	RequestID       *bool             `json:"requestId,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty"`
	NoColor         *bool             `json:"noColor,omitempty"`
}

func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetRequestID returns the request ID setting, defaulting to false
func (c *Config) GetRequestID() bool {
	return getBool(c.RequestID, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration converts Timeout to a duration, falling back to
// http.DefaultTimeout when unset
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return http.DefaultTimeout
	}
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".courier.config.json",
	"courier.config.json",
	".courierrc",
	".courierrc.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return config, nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	switch http.CacheBackend(c.Cache) {
	case "", http.CacheMemory, http.CacheNone:
	case http.CacheMemcache:
		if len(c.MemcacheServers) == 0 {
			return errors.New("memcache cache requires memcacheServers")
		}
	default:
		return errors.Errorf("unknown cache backend %q", c.Cache)
	}
	if c.RateLimit < 0 {
		return errors.Errorf("rateLimit must not be negative, got %v", c.RateLimit)
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Cache != "" {
		result.Cache = other.Cache
	}
	if len(other.MemcacheServers) > 0 {
		result.MemcacheServers = other.MemcacheServers
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.Burst > 0 {
		result.Burst = other.Burst
	}
	if other.Locale != "" {
		result.Locale = other.Locale
	}

	// Boolean flags - only override if explicitly set in other config
	if other.RequestID != nil {
		result.RequestID = other.RequestID
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(c.Headers) > 0 || len(other.Headers) > 0 {
		result.Headers = make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			result.Headers[k] = v
		}
		for k, v := range other.Headers {
			result.Headers[k] = v
		}
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}

// SessionConfig describes the session the configuration asks for
func (c *Config) SessionConfig() http.SessionConfig {
	return http.SessionConfig{
		Cache:           http.CacheBackend(c.Cache),
		MemcacheServers: c.MemcacheServers,
	}
}

// ClientOptions builds the client options for this configuration. A nil
// recorder leaves metrics off.
func (c *Config) ClientOptions(recorder *metrics.Recorder) []http.ClientOption {
	opts := []http.ClientOption{
		http.WithSession(http.NewSession(c.SessionConfig())),
		http.WithRequestID(c.GetRequestID()),
	}
	if c.RateLimit > 0 {
		burst := c.Burst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, http.WithRateLimit(c.RateLimit, burst))
	}
	if recorder != nil {
		opts = append(opts, http.WithMetrics(recorder))
	}
	return opts
}

// RequestOptions returns the request defaults carried by the configuration:
// timeout, default headers in key order and locale.
func (c *Config) RequestOptions() []http.RequestOption {
	opts := []http.RequestOption{http.WithTimeout(c.TimeoutDuration())}
	for _, k := range sortedKeys(c.Headers) {
		opts = append(opts, http.WithHeader(k, c.Headers[k]))
	}
	if c.Locale != "" {
		opts = append(opts, http.WithLocale(c.Locale))
	}
	return opts
}
