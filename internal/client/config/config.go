package config

import "time"

// Config holds runtime settings for the instacli client.
//
// Fields:
//   - APIEndpoint: base URL of the backend REST API.
//   - SocketEndpoint: URL of the realtime push endpoint.
//   - DatabasePath: path of the local sqlite session database.
//   - RequestTimeout: per-request deadline for REST calls.
type Config struct {
	APIEndpoint    string
	SocketEndpoint string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIEndpoint = "http://localhost:5000/api"
	c.SocketEndpoint = "ws://localhost:8800"
	c.DatabasePath = "instacli.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
