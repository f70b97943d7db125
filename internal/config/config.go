package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/paths"
	"github.com/johnchase/qiime2/internal/validate"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// Config represents the top-level configuration structure.
type Config struct {
	Version         int      `mapstructure:"version" yaml:"version"`
	PluginDirs      []string `mapstructure:"plugin_dirs" yaml:"plugin_dirs"`
	DefaultLevel    string   `mapstructure:"default_level" yaml:"default_level"`
	Concurrency     int      `mapstructure:"concurrency" yaml:"concurrency"`
	DisabledPlugins []string `mapstructure:"disabled_plugins" yaml:"disabled_plugins"`
	MetricsFile     string   `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// Level returns the configured default validation level.
func (c *Config) Level() validate.Level {
	return validate.Level(c.DefaultLevel)
}

// Disabled reports whether the named plugin is disabled.
func (c *Config) Disabled(name string) bool {
	for _, d := range c.DisabledPlugins {
		if d == name {
			return true
		}
	}
	return false
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:      1,
		PluginDirs:   paths.PluginDirs(),
		DefaultLevel: string(validate.LevelMax),
		Concurrency:  4,
	}
}

// Init resets Viper and installs qval's search paths, environment binding
// and defaults. Call this once at application startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("QVAL")
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("plugin_dirs", d.PluginDirs)
	viper.SetDefault("default_level", d.DefaultLevel)
	viper.SetDefault("concurrency", d.Concurrency)
	viper.SetDefault("disabled_plugins", []string{})
	viper.SetDefault("metrics_file", "")
}

// Load reads and validates the configuration.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, the search paths are used and defaults
// apply when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		switch {
		case missing && path == "":
			// Implicit load; defaults are fine.
		case missing:
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errors.Join(errs...), "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the file Load read, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
