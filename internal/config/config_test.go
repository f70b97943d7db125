package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/validate"
)

func TestInit(t *testing.T) {
	Init()

	// Check defaults are set
	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if viper.GetString("default_level") != "max" {
		t.Errorf("expected default_level max, got %q", viper.GetString("default_level"))
	}
	if len(viper.GetStringSlice("plugin_dirs")) == 0 {
		t.Error("expected plugin_dirs to have values")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QVAL_CONFIG_DIR", t.TempDir())

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Concurrency != 4 || cfg.Level() != validate.LevelMax {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("plugin_dirs:\n  - /opt/qval\ndefault_level: min\nconcurrency: 8\ndisabled_plugins: [experimental]\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.PluginDirs) != 1 || cfg.PluginDirs[0] != "/opt/qval" {
		t.Errorf("plugin_dirs = %v", cfg.PluginDirs)
	}
	if cfg.Level() != validate.LevelMin {
		t.Errorf("level = %q, want min", cfg.Level())
	}
	if cfg.Concurrency != 8 {
		t.Errorf("concurrency = %d, want 8", cfg.Concurrency)
	}
	if !cfg.Disabled("experimental") || cfg.Disabled("builtin") {
		t.Errorf("disabled_plugins = %v", cfg.DisabledPlugins)
	}
	if ConfigFileUsed() != configPath {
		t.Errorf("ConfigFileUsed() = %q", ConfigFileUsed())
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QVAL_CONFIG_DIR", t.TempDir())
	t.Setenv("QVAL_DEFAULT_LEVEL", "min")
	t.Setenv("QVAL_CONCURRENCY", "2")

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Level() != validate.LevelMin || cfg.Concurrency != 2 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_ConfigDirEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	t.Setenv("QVAL_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("concurrency: 3\n"), 0600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("concurrency = %d, want 3", cfg.Concurrency)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	Init()

	_, err := Load("/non/existent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() with non-existent explicit path should error")
	}
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unsupported version",
			content: "version: 2\n",
			wantErr: "unsupported config version",
		},
		{
			name:    "invalid level",
			content: "default_level: medium\n",
			wantErr: "default_level",
		},
		{
			name:    "invalid concurrency",
			content: "concurrency: 0\n",
			wantErr: "concurrency must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init()

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			_, err := Load(configPath)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), "validating config") || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestInit_ClearsPreviousState(t *testing.T) {
	t.Chdir(t.TempDir())

	fileA := filepath.Join(t.TempDir(), "config_a.yaml")
	if err := os.WriteFile(fileA, []byte("concurrency: 5\n"), 0600); err != nil {
		t.Fatal(err)
	}

	Init()
	if _, err := Load(fileA); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	dirB := t.TempDir()
	t.Setenv("QVAL_CONFIG_DIR", dirB)
	if err := os.WriteFile(filepath.Join(dirB, "config.yaml"), []byte("concurrency: 6\n"), 0600); err != nil {
		t.Fatal(err)
	}

	// Re-initializing must forget fileA.
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cfg.Concurrency != 6 {
		t.Errorf("expected config from default path, got concurrency %d (file %s)", cfg.Concurrency, ConfigFileUsed())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"default is valid", func(*Config) {}, nil},
		{"version too low", func(c *Config) { c.Version = 0 }, ErrVersionTooLow},
		{"bad level", func(c *Config) { c.DefaultLevel = "high" }, validate.ErrInvalidLevel},
		{"null byte path", func(c *Config) { c.PluginDirs = []string{"a\x00b"} }, ErrInvalidPath},
		{"dot metrics file", func(c *Config) { c.MetricsFile = "." }, ErrInvalidPath},
		{"blank disabled plugin", func(c *Config) { c.DisabledPlugins = []string{" "} }, errors.ErrMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := Validate(cfg)

			if tt.wantErr == nil {
				if len(errs) != 0 {
					t.Errorf("Validate() = %v, want no errors", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", errs[0], tt.wantErr)
			}
		})
	}

	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v", errs)
	}
}
