package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/posvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "not set" and leave the corresponding Config field untouched.
type JsonConfig struct {
	DatabasePath        string `json:"database_path"`
	MaxQueueItems       int64  `json:"max_queue_items"`
	MaxQueueBytes       int64  `json:"max_queue_bytes"`
	ReceiptHistoryLimit int    `json:"receipt_history_limit"`
}

// parseJson overlays Config with values loaded from a JSON file resolved
// via the -c/-config flags. If no file is given, nothing happens. Read or
// unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.MaxQueueItems > 0 {
		cfg.MaxQueueItems = jc.MaxQueueItems
	}
	if jc.MaxQueueBytes > 0 {
		cfg.MaxQueueBytes = jc.MaxQueueBytes
	}
	if jc.ReceiptHistoryLimit > 0 {
		cfg.ReceiptHistoryLimit = jc.ReceiptHistoryLimit
	}
}
