package config

import (
	"path/filepath"
	"strings"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/validate"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrUnsupportedVersion indicates a config written for a newer qval.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidConcurrency indicates a non-positive concurrency.
	ErrInvalidConcurrency = errors.New("concurrency must be >= 1")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// CurrentVersion is the newest config version this build understands.
const CurrentVersion = 1

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	switch {
	case cfg.Version < 1:
		errs = append(errs, ErrVersionTooLow)
	case cfg.Version > CurrentVersion:
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}

	if _, err := validate.ParseLevel(cfg.DefaultLevel); err != nil {
		errs = append(errs, &FieldError{Field: "default_level", Value: cfg.DefaultLevel, Err: err})
	}

	if cfg.Concurrency < 1 {
		errs = append(errs, ErrInvalidConcurrency)
	}

	for _, dir := range cfg.PluginDirs {
		if err := validatePath(dir); err != nil {
			errs = append(errs, &FieldError{Field: "plugin_dirs", Value: dir, Err: err})
		}
	}

	if cfg.MetricsFile != "" {
		if err := validatePath(cfg.MetricsFile); err != nil {
			errs = append(errs, &FieldError{Field: "metrics_file", Value: cfg.MetricsFile, Err: err})
		}
	}

	for _, name := range cfg.DisabledPlugins {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &FieldError{Field: "disabled_plugins", Value: name, Err: errors.ErrMissingName})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if path == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an error for a specific config field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
