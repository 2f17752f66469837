// Package config loads runtime configuration for the posvault client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   path to the client database file
//	-n int      maximum number of queued offline actions
//	-b int      maximum total encrypted payload bytes in the queue
//	-r int      receipt history length kept in the offline cache
package config

// Config holds runtime settings for the posvault client.
type Config struct {
	// DatabasePath is the SQLite file holding all three collections.
	DatabasePath string

	// MaxQueueItems caps how many unsynced actions a device may hold.
	MaxQueueItems int64

	// MaxQueueBytes caps the total encrypted payload size of the queue.
	MaxQueueBytes int64

	// ReceiptHistoryLimit bounds the "recent receipts" snapshot list.
	ReceiptHistoryLimit int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "posvault.db"
	c.MaxQueueItems = 1000
	c.MaxQueueBytes = 5 * 1024 * 1024
	c.ReceiptHistoryLimit = 50
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
