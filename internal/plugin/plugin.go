package plugin

import (
	"reflect"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/transform"
	"github.com/johnchase/qiime2/internal/validate"
)

// Sentinel errors for plugin registration.
var (
	// ErrEmptyExpression is returned when a validator is registered against
	// an expression with no concrete members.
	ErrEmptyExpression = errors.New("type expression has no concrete members")

	// ErrDuplicateArtifactClass is returned when a concrete type is given
	// two stored formats.
	ErrDuplicateArtifactClass = errors.New("artifact class already registered")
)

// Metadata describes a plugin.
type Metadata struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	Version     string `yaml:"version" toml:"version" json:"version"`
	Website     string `yaml:"website,omitempty" toml:"website,omitempty" json:"website,omitempty"`
	Package     string `yaml:"package,omitempty" toml:"package,omitempty" json:"package,omitempty"`
	ProjectName string `yaml:"project_name,omitempty" toml:"project_name,omitempty" json:"project_name,omitempty"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
}

// Opener reads stored data of an artifact class from a file.
type Opener func(path string) (any, error)

// ArtifactClass binds a concrete type to the Go type of its stored format.
type ArtifactClass struct {
	Type   semtype.Type
	Format reflect.Type
	Open   Opener
	Plugin string
}

// FormatID identifies the stored format, e.g.
// "github.com/johnchase/qiime2/internal/builtin:IntSequenceFormat".
func (a ArtifactClass) FormatID() string {
	return transform.ViewID(a.Format)
}

type transformer struct {
	from, to reflect.Type
	fn       transform.Func
}

// Plugin collects registrations. It is not safe for concurrent
// registration; register everything before installing the plugin.
type Plugin struct {
	Metadata

	classes      []ArtifactClass
	transformers []transformer
	records      []validate.Record
}

// New creates a plugin with no registrations.
func New(meta Metadata) *Plugin {
	return &Plugin{Metadata: meta}
}

// RegisterArtifactClass declares the stored format of concrete type t.
func (p *Plugin) RegisterArtifactClass(t semtype.Type, format reflect.Type, open Opener) error {
	if t.IsZero() || format == nil {
		return errors.New("artifact class requires a type and a format")
	}
	for _, c := range p.classes {
		if c.Type.Equal(t) {
			return errors.Wrapf(ErrDuplicateArtifactClass, "%s in plugin %q", t, p.Name)
		}
	}
	p.classes = append(p.classes, ArtifactClass{Type: t, Format: format, Open: open, Plugin: p.Name})
	return nil
}

// RegisterArtifactClassOf declares the stored format F of concrete type t.
func RegisterArtifactClassOf[F any](p *Plugin, t semtype.Type, open func(path string) (F, error)) error {
	var opener Opener
	if open != nil {
		opener = func(path string) (any, error) {
			f, err := open(path)
			if err != nil {
				return nil, err
			}
			return f, nil
		}
	}
	return p.RegisterArtifactClass(t, reflect.TypeFor[F](), opener)
}

// RegisterTransformer declares a transformer between two Go types.
func (p *Plugin) RegisterTransformer(from, to reflect.Type, fn transform.Func) error {
	if from == nil || to == nil || fn == nil {
		return errors.New("transformer requires source, destination and function")
	}
	for _, t := range p.transformers {
		if t.from == from && t.to == to {
			return errors.Wrapf(transform.ErrDuplicateTransformer, "%s -> %s in plugin %q",
				transform.ViewID(from), transform.ViewID(to), p.Name)
		}
	}
	p.transformers = append(p.transformers, transformer{from: from, to: to, fn: fn})
	return nil
}

// RegisterTransformerOf declares a transformer from a typed function.
func RegisterTransformerOf[From, To any](p *Plugin, fn func(From) (To, error)) error {
	return p.RegisterTransformer(reflect.TypeFor[From](), reflect.TypeFor[To](), transform.Typed(fn))
}

// RegisterValidator checks d and records one validator per concrete
// member of expr. Shape errors are returned immediately, before the
// plugin is installed anywhere.
func (p *Plugin) RegisterValidator(expr semtype.Expression, d validate.Descriptor) error {
	if err := d.Check(); err != nil {
		return err
	}
	if expr == nil || len(expr.Members()) == 0 {
		return errors.Wrapf(ErrEmptyExpression, "validator %q", d.Name)
	}

	v := d.Validator()
	for _, member := range expr.Members() {
		p.records = append(p.records, validate.NewRecord(v, d.View, p.Name, member))
	}
	return nil
}

// RegisterFunc registers a typed validator. The view is T and the
// parameters are data and level.
func RegisterFunc[T any](p *Plugin, expr semtype.Expression, name string, prio validate.Priority,
	fn func(data T, level validate.Level) error) error {
	var f validate.Func
	if fn != nil {
		f = func(data any, level validate.Level) error {
			v, ok := data.(T)
			if !ok && data != nil {
				return errors.Newf("validator %q expects %s, got %T", name, transform.ViewID(reflect.TypeFor[T]()), data)
			}
			return fn(v, level)
		}
	}
	return p.RegisterValidator(expr, validate.Descriptor{
		Name:     name,
		Params:   validate.RequiredParams,
		View:     reflect.TypeFor[T](),
		Priority: prio,
		Func:     f,
	})
}

// Validators returns the plugin's records, one per concrete type each
// validator was registered for.
func (p *Plugin) Validators() []validate.Record {
	out := make([]validate.Record, len(p.records))
	copy(out, p.records)
	return out
}

// ArtifactClasses returns the plugin's artifact classes.
func (p *Plugin) ArtifactClasses() []ArtifactClass {
	out := make([]ArtifactClass, len(p.classes))
	copy(out, p.classes)
	return out
}

// TransformerCount returns the number of transformers the plugin declares.
func (p *Plugin) TransformerCount() int {
	return len(p.transformers)
}
