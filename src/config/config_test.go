package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/splitfile/src/chunkspec"
	"github.com/danmuck/splitfile/src/fileops"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "splitfile.config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Split.Bytes != chunkspec.Default {
		t.Errorf("default split bytes = %q, want %q", cfg.Split.Bytes, chunkspec.Default)
	}
	if cfg.Join.TempSuffix != ".joined" {
		t.Errorf("default temp suffix = %q", cfg.Join.TempSuffix)
	}
	if cfg.Join.RemoveAfterJoin || cfg.Join.AssumeYes {
		t.Error("join defaults should not remove parts or assume yes")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[split]
bytes = "10KB"

[join]
remove_after_join = true

[ops]
backend = "system"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Split.Bytes != "10KB" {
		t.Errorf("split.bytes = %q, want 10KB", cfg.Split.Bytes)
	}
	if !cfg.Join.RemoveAfterJoin {
		t.Error("join.remove_after_join should be true")
	}
	if cfg.Ops.Backend != fileops.BackendSystem {
		t.Errorf("ops.backend = %q", cfg.Ops.Backend)
	}
	// untouched keys keep their defaults
	if cfg.Join.TempSuffix != ".joined" || !cfg.Journal.Enabled {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFileRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad chunk spec", "[split]\nbytes = \"0MB\"\n"},
		{"bad backend", "[ops]\nbackend = \"rsync\"\n"},
		{"numeric temp suffix", "[join]\ntemp_suffix = \".001\"\n"},
		{"temp suffix without dot", "[join]\ntemp_suffix = \"joined\"\n"},
		{"temp suffix with separator", "[join]\ntemp_suffix = \".a/b\"\n"},
		{"unknown key", "[join]\nremove = true\n"},
		{"journal without dir", "[journal]\nenabled = true\ndir = \"\"\n"},
		{"malformed toml", "[split\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("LoadFile() should fail for %q", tc.body)
			}
		})
	}
}

func TestValidateWrapsChunkSpecError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Split.Bytes = "lots"
	err := cfg.Validate()
	if !errors.Is(err, chunkspec.ErrInvalid) {
		t.Fatalf("Validate() error = %v, want chunkspec.ErrInvalid", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[join]\nassume_yes = true\n")
	t.Setenv(envConfigPath, path)

	cfg, used, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if used != path {
		t.Errorf("Load() path = %q, want %q", used, path)
	}
	if !cfg.Join.AssumeYes {
		t.Error("join.assume_yes should be true")
	}
}

func TestLoadFromEnvMissingFile(t *testing.T) {
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "missing.toml"))
	if _, _, err := Load(); err == nil {
		t.Fatal("Load() should fail when SPLITFILE_CONFIG names a missing file")
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv(envConfigPath, "")
	saved := Candidates
	Candidates = []string{filepath.Join(t.TempDir(), "none.toml")}
	t.Cleanup(func() { Candidates = saved })

	cfg, used, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if used != "" {
		t.Errorf("Load() path = %q, want empty", used)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}
