package config

import (
	"encoding/json"
	"os"

	"github.com/avilovp/mediashuttle/internal/flagx"
	"github.com/avilovp/mediashuttle/internal/timex"
)

// JsonConfig is the DTO for JSON unmarshalling; values are copied into
// the runtime Config afterwards.
type JsonConfig struct {
	Servers        []string       `json:"servers"`
	Token          string         `json:"token"`
	DatabasePath   string         `json:"database_path"`
	BlobDir        string         `json:"blob_dir"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the JSON file named via the
// -c/-config flags. No file, no overlay.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if len(jc.Servers) > 0 {
		cfg.Servers = jc.Servers
	}
	if jc.Token != "" {
		cfg.Token = jc.Token
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.BlobDir != "" {
		cfg.BlobDir = jc.BlobDir
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
