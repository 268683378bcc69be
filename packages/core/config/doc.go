// Package config handles configuration loading for courier.
//
// It provides functionality for:
//   - Loading configuration from .courier.config.json or .courierrc files
//   - Default configuration values
//   - Turning a configuration into client and request options
package config
