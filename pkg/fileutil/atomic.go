// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/johnchase/qiime2/internal/errors"
)

// Encoding names a structured file encoding.
type Encoding string

const (
	EncodingYAML Encoding = "yaml"
	EncodingTOML Encoding = "toml"
	EncodingJSON Encoding = "json"
)

// ErrUnknownEncoding indicates a file extension with no known encoding.
var ErrUnknownEncoding = errors.New("unknown file encoding")

// EncodingFor picks the encoding from path's extension.
func EncodingFor(path string) (Encoding, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML, nil
	case ".toml":
		return EncodingTOML, nil
	case ".json":
		return EncodingJSON, nil
	}
	return "", errors.Wrapf(ErrUnknownEncoding, "%s (want .yaml, .yml, .toml or .json)", path)
}

// Marshal encodes v. The output always ends in a newline.
func Marshal(v any, enc Encoding) (data []byte, err error) {
	switch enc {
	case EncodingYAML:
		// yaml.Marshal panics on unmarshalable types; recover and return error
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("marshaling YAML: %v", r)
			}
		}()
		data, err = yaml.Marshal(v)
		err = errors.Wrap(err, "marshaling YAML")
	case EncodingTOML:
		data, err = toml.Marshal(v)
		err = errors.Wrap(err, "marshaling TOML")
	case EncodingJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		err = errors.Wrap(err, "marshaling JSON")
	default:
		return nil, errors.Wrapf(ErrUnknownEncoding, "%q", enc)
	}
	if err != nil {
		return nil, err
	}

	// Trailing newline for POSIX compliance
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Create temp file in same directory for atomic rename (same filesystem required)
	tmp, err := os.CreateTemp(dir, ".qval-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Only remove if rename failed (file still exists)
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// AtomicWriteEncoded encodes v in the encoding implied by path's extension
// and writes it atomically with 0644 permissions.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteEncoded(path string, v any) error {
	enc, err := EncodingFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(v, enc)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}
