package config

import (
	"sort"

	"github.com/abdul-hamid-achik/courier/packages/http"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:   int(http.DefaultTimeout.Milliseconds()), // 60 seconds
		Cache:     string(http.CacheMemory),
		RateLimit: 0,
		Burst:     1,
		RequestID: boolPtr(false),
		Verbose:   boolPtr(false),
		NoColor:   boolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Timeout == defaults.Timeout &&
		c.Cache == defaults.Cache &&
		len(c.MemcacheServers) == 0 &&
		len(c.Headers) == 0 &&
		c.RateLimit == defaults.RateLimit &&
		c.Burst == defaults.Burst &&
		c.Locale == defaults.Locale &&
		c.GetRequestID() == defaults.GetRequestID() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
