// Package config loads the optional splitfile.config.toml that sets
// defaults for both tools. Command-line flags override anything set here.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/splitfile/src/chunkspec"
	"github.com/danmuck/splitfile/src/fileops"
	"github.com/danmuck/splitfile/src/naming"
)

const envConfigPath = "SPLITFILE_CONFIG"

// Candidates are tried in order when SPLITFILE_CONFIG is not set.
var Candidates = []string{
	"./splitfile.config.toml",
	"./local/splitfile.config.toml",
}

type SplitConfig struct {
	Bytes     string `toml:"bytes"`
	AssumeYes bool   `toml:"assume_yes"`
}

type JoinConfig struct {
	RemoveAfterJoin bool   `toml:"remove_after_join"`
	AssumeYes       bool   `toml:"assume_yes"`
	TempSuffix      string `toml:"temp_suffix"`
}

type OpsConfig struct {
	Backend  string `toml:"backend"`  // "native" or "system"
	Progress bool   `toml:"progress"` // progress bar on stderr, native backend only
}

type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type Config struct {
	Split   SplitConfig   `toml:"split"`
	Join    JoinConfig    `toml:"join"`
	Ops     OpsConfig     `toml:"ops"`
	Journal JournalConfig `toml:"journal"`
}

func DefaultConfig() Config {
	return Config{
		Split: SplitConfig{
			Bytes: chunkspec.Default,
		},
		Join: JoinConfig{
			TempSuffix: ".joined",
		},
		Ops: OpsConfig{
			Backend:  fileops.BackendNative,
			Progress: true,
		},
		Journal: JournalConfig{
			Enabled: true,
			Dir:     "./local/logs",
		},
	}
}

// LoadFile decodes path on top of the defaults, so keys missing from the
// file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return cfg, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load returns the file-backed configuration when one exists, otherwise
// the defaults. The returned path is "" when no file was used. A file named
// by SPLITFILE_CONFIG must exist; the fallback candidates are optional.
func Load() (Config, string, error) {
	if path := os.Getenv(envConfigPath); path != "" {
		cfg, err := LoadFile(path)
		return cfg, path, err
	}

	for _, path := range Candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFile(path)
		return cfg, path, err
	}

	return DefaultConfig(), "", nil
}

// Validate checks the chunk spec, backend name and temp suffix.
func (c *Config) Validate() error {
	if _, err := chunkspec.Parse(c.Split.Bytes); err != nil {
		return fmt.Errorf("split.bytes: %w", err)
	}

	if _, err := fileops.New(c.Ops.Backend, fileops.Options{}); err != nil {
		return fmt.Errorf("ops.backend: %w", err)
	}

	suffix := c.Join.TempSuffix
	switch {
	case suffix == "":
		return errors.New("join.temp_suffix must not be empty")
	case !strings.HasPrefix(suffix, "."):
		return fmt.Errorf("join.temp_suffix %q must start with '.'", suffix)
	case strings.ContainsAny(suffix, `/\`):
		return fmt.Errorf("join.temp_suffix %q must not contain a path separator", suffix)
	case naming.IsSplitPart("x" + suffix):
		return fmt.Errorf("join.temp_suffix %q would be mistaken for a split part", suffix)
	}

	if c.Journal.Enabled && c.Journal.Dir == "" {
		return errors.New("journal.dir must be set when the journal is enabled")
	}
	return nil
}
