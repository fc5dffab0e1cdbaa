// Package logcfg finds the smplog configuration for the split and join
// binaries.
package logcfg

import (
	"os"

	logs "github.com/danmuck/smplog"
)

const envConfigPath = "SMPLOG_CONFIG"

// Candidates are tried in order when SMPLOG_CONFIG is unset or unreadable.
var Candidates = []string{
	"./smplog.config.toml",
	"./local/smplog.config.toml",
}

// Load returns the first readable config and the path it came from. The
// path is "" when the smplog defaults are used.
func Load() (logs.Config, string) {
	paths := Candidates
	if path := os.Getenv(envConfigPath); path != "" {
		paths = append([]string{path}, Candidates...)
	}

	for _, path := range paths {
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg, path
		}
	}
	return logs.DefaultConfig(), ""
}
