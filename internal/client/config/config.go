// Package config handles configuration for the shuttle CLI: defaults,
// JSON overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the shuttle CLI.
//
// Fields:
//   - Servers: base URLs of upload services, queried for capabilities in
//     order. The first eligible service receives uploads.
//   - Token: bearer token sent on slot requests; empty for open services.
//   - DatabasePath: SQLite file tracking transfer state.
//   - BlobDir: directory downloaded files are stored in.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	Servers        []string
	Token          string
	DatabasePath   string
	BlobDir        string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Servers = []string{"https://127.0.0.1:8448"}
	c.DatabasePath = "shuttle.db"
	c.BlobDir = "blobs"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
