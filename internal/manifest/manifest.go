package manifest

import (
	"bytes"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/plugin"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/validate"
	"github.com/johnchase/qiime2/pkg/fileutil"
)

// Sentinel errors for manifests.
var (
	// ErrInvalidManifest is returned for documents that cannot be decoded
	// or are missing required fields.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrUnknownView is returned for a view name outside the catalog.
	ErrUnknownView = errors.New("unknown view")

	// ErrUnknownRule is returned for a rule name outside the catalog.
	ErrUnknownRule = errors.New("unknown rule")
)

// Manifest is a declarative plugin.
type Manifest struct {
	Plugin     plugin.Metadata `yaml:"plugin" toml:"plugin" json:"plugin"`
	Validators []Validator     `yaml:"validators" toml:"validators" json:"validators"`
}

// Validator declares one rule-backed validator.
type Validator struct {
	Name     string         `yaml:"name" toml:"name" json:"name"`
	Types    string         `yaml:"types" toml:"types" json:"types"`
	Params   []string       `yaml:"params,omitempty" toml:"params,omitempty" json:"params,omitempty"`
	View     string         `yaml:"view" toml:"view" json:"view"`
	Priority string         `yaml:"priority,omitempty" toml:"priority,omitempty" json:"priority,omitempty"`
	Rule     string         `yaml:"rule" toml:"rule" json:"rule"`
	Args     map[string]any `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`
}

var views = map[string]reflect.Type{
	"ints":    reflect.TypeFor[[]int](),
	"mapping": reflect.TypeFor[map[string]string](),
	"text":    reflect.TypeFor[string](),
}

// Views returns the view names a manifest may use.
func Views() []string {
	out := make([]string, 0, len(views))
	for name := range views {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ViewType returns the Go type of a catalog view.
func ViewType(name string) (reflect.Type, error) {
	t, ok := views[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownView, "%q (want one of %s)", name, strings.Join(Views(), ", "))
	}
	return t, nil
}

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(data []byte, enc fileutil.Encoding) (*Manifest, error) {
	var m Manifest
	switch enc {
	case fileutil.EncodingYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "decoding YAML manifest"), ErrInvalidManifest)
		}
	case fileutil.EncodingTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "decoding TOML manifest"), ErrInvalidManifest)
		}
	default:
		return nil, errors.Wrapf(fileutil.ErrUnknownEncoding, "manifests are YAML or TOML, not %q", enc)
	}

	if m.Plugin.Name == "" {
		return nil, errors.Mark(errors.New("plugin.name is required"), ErrInvalidManifest)
	}
	return &m, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	enc, err := fileutil.EncodingFor(path)
	if err != nil {
		return nil, err
	}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	m, err := Parse(data, enc)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// Build registers every validator of m on a new plugin. The first failing
// validator stops the build.
func (m *Manifest) Build() (*plugin.Plugin, error) {
	p := plugin.New(m.Plugin)
	for i, v := range m.Validators {
		if err := v.register(p); err != nil {
			name := v.Name
			if name == "" {
				name = "#" + strconv.Itoa(i+1)
			}
			return nil, errors.Wrapf(err, "plugin %q: validator %s", m.Plugin.Name, name)
		}
	}
	return p, nil
}

func (v Validator) register(p *plugin.Plugin) error {
	expr, err := semtype.Parse(v.Types)
	if err != nil {
		return errors.Wrap(err, "types")
	}

	prio, err := validate.ParsePriority(v.Priority)
	if err != nil {
		return err
	}

	var view reflect.Type
	if v.View != "" {
		if view, err = ViewType(v.View); err != nil {
			return err
		}
	}

	params := v.Params
	if params == nil {
		params = slices.Clone(validate.RequiredParams)
	}

	d := validate.Descriptor{
		Name:     v.Name,
		Params:   params,
		View:     view,
		Priority: prio,
		Func:     uncompiled,
	}
	// Parameters and view are checked before the rule is compiled against
	// the view.
	if err := d.Check(); err != nil {
		return err
	}

	if d.Func, err = compileRule(v.Rule, v.Args, view); err != nil {
		return err
	}
	return p.RegisterValidator(expr, d)
}

// uncompiled stands in for a rule while the descriptor shape is checked.
func uncompiled(any, validate.Level) error { return nil }

// Write encodes m by path's extension and writes it atomically.
func Write(path string, m *Manifest) error {
	enc, err := fileutil.EncodingFor(path)
	if err != nil {
		return err
	}
	if enc == fileutil.EncodingJSON {
		return errors.Wrapf(fileutil.ErrUnknownEncoding, "manifests are YAML or TOML, not %s", filepath.Ext(path))
	}
	return fileutil.AtomicWriteEncoded(path, m)
}

// Scaffold returns a starter manifest for a plugin called name.
func Scaffold(name string) *Manifest {
	return &Manifest{
		Plugin: plugin.Metadata{
			Name:        name,
			Version:     "0.1.0",
			Description: "Validators for " + name,
		},
		Validators: []Validator{
			{
				Name:     "not_empty",
				Types:    "IntSequence1 | IntSequence2",
				View:     "ints",
				Priority: "first",
				Rule:     "non_empty",
			},
			{
				Name:  "bounded",
				Types: "IntSequence1 | IntSequence2",
				View:  "ints",
				Rule:  "max_value",
				Args:  map[string]any{"max": 1000},
			},
			{
				Name:  "has_id",
				Types: "Mapping",
				View:  "mapping",
				Rule:  "required_keys",
				Args:  map[string]any{"keys": []string{"id"}},
			},
		},
	}
}
