// Package config loads runtime configuration for the instacli client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-w string   URL of the realtime push endpoint
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_endpoint": "http://localhost:5000/api",
//	  "socket_endpoint": "ws://localhost:8800",
//	  "database_path": "instacli.db",
//	  "request_timeout": "15s"
//	}
//
// Primary API
//
//   - type Config                     — endpoint URLs, database path, timeout
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
