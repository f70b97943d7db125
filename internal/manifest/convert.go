package manifest

import (
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/pkg/fileutil"
)

// Convert re-encodes a manifest document between YAML and TOML. The
// document is decoded into a Manifest first, so invalid documents are
// rejected rather than translated.
func Convert(data []byte, from, to fileutil.Encoding) ([]byte, error) {
	m, err := Parse(data, from)
	if err != nil {
		return nil, err
	}
	switch to {
	case fileutil.EncodingYAML:
		out, err := yaml.Marshal(m)
		return out, errors.Wrap(err, "marshaling yaml")
	case fileutil.EncodingTOML:
		out, err := toml.Marshal(m)
		return out, errors.Wrap(err, "marshaling toml")
	}
	return nil, errors.Wrapf(fileutil.ErrUnknownEncoding, "manifests are YAML or TOML, not %q", to)
}
