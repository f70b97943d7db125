package plugin

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/logging"
	"github.com/johnchase/qiime2/internal/metrics"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/transform"
	"github.com/johnchase/qiime2/internal/validate"
)

// Sentinel errors for plugin installation.
var (
	// ErrPluginAlreadyInstalled is returned when a plugin name is installed twice.
	ErrPluginAlreadyInstalled = errors.New("plugin already installed")

	// ErrPluginNotInstalled is returned when removing an unknown plugin.
	ErrPluginNotInstalled = errors.New("plugin not installed")
)

// Manager aggregates installed plugins: their artifact classes, the
// combined transformer graph, and one validation object per concrete type.
// It is safe for concurrent use.
type Manager struct {
	mu sync.RWMutex

	logger  *slog.Logger
	metrics *metrics.Metrics

	plugins    []*Plugin
	classes    map[string]ArtifactClass
	validators map[string]*validate.Object
	graph      *transform.Graph
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records installs and validations to mt.
func WithMetrics(mt *metrics.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{logger: logging.NewDiscard()}
	for _, opt := range opts {
		opt(m)
	}
	m.resetLocked()
	return m
}

func (m *Manager) resetLocked() {
	m.plugins = nil
	m.classes = make(map[string]ArtifactClass)
	m.validators = make(map[string]*validate.Object)
	m.graph = transform.NewGraph()
	m.metrics.SetPlugins(0)
}

// AddPlugin installs p. Every validator record is checked against the
// stored format of its concrete type; if any view is unreachable, or any
// registration conflicts with an installed plugin, nothing is installed.
//
// Plugins that declare formats or transformers another plugin relies on
// must be installed first.
func (m *Manager) AddPlugin(p *Plugin) error {
	if p == nil {
		return errors.New("nil plugin")
	}
	if p.Name == "" {
		return errors.Wrap(errors.ErrMissingName, "plugin")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.install(p)
}

func (m *Manager) install(p *Plugin) error {
	for _, installed := range m.plugins {
		if installed.Name == p.Name {
			return errors.Wrapf(ErrPluginAlreadyInstalled, "%q", p.Name)
		}
	}

	// Stage against copies so a failure leaves the manager untouched.
	classes := make(map[string]ArtifactClass, len(m.classes)+len(p.classes))
	for k, v := range m.classes {
		classes[k] = v
	}
	for _, c := range p.classes {
		if prev, ok := classes[c.Type.Key()]; ok {
			return errors.Wrapf(ErrDuplicateArtifactClass, "%s from plugin %q is already provided by plugin %q",
				c.Type, p.Name, prev.Plugin)
		}
		classes[c.Type.Key()] = c
	}

	graph := m.graph.Clone()
	for _, t := range p.transformers {
		if err := graph.Register(t.from, t.to, t.fn); err != nil {
			return errors.Wrapf(err, "plugin %q", p.Name)
		}
	}

	for _, rec := range p.records {
		if err := checkView(classes, graph, rec); err != nil {
			return err
		}
	}

	perType := make(map[string]*validate.Object)
	var order []string
	for _, rec := range p.records {
		key := rec.Context().Key()
		obj, ok := perType[key]
		if !ok {
			obj = validate.New(rec.Context())
			perType[key] = obj
			order = append(order, key)
		}
		if err := obj.AddValidator(rec); err != nil {
			return errors.Wrapf(err, "plugin %q", p.Name)
		}
	}

	// Commit. Nothing below can fail.
	for _, t := range p.transformers {
		_ = m.graph.Register(t.from, t.to, t.fn)
	}
	m.classes = classes
	for _, key := range order {
		po := perType[key]
		obj, ok := m.validators[key]
		if !ok {
			obj = validate.New(po.ConcreteType(),
				validate.WithTransformer(m.graph),
				validate.WithObserver(m.observe))
			m.validators[key] = obj
		}
		_ = obj.AddObject(po)
	}
	m.plugins = append(m.plugins, p)

	m.metrics.SetPlugins(len(m.plugins))
	m.metrics.AddRecords(p.Name, len(p.records))
	m.logger.Debug("installed plugin",
		"plugin", p.Name,
		"version", p.Version,
		"artifact_classes", len(p.classes),
		"transformers", len(p.transformers),
		"validators", len(p.records),
	)
	return nil
}

func checkView(classes map[string]ArtifactClass, graph *transform.Graph, rec validate.Record) error {
	view := transform.ViewID(rec.View())
	class, ok := classes[rec.Context().Key()]
	if !ok {
		return &validate.IncompatibleViewError{
			Type:      rec.Context(),
			Validator: rec.Name(),
			Plugin:    rec.Plugin(),
			View:      view,
			Err:       validate.ErrUnknownArtifactClass,
		}
	}
	if !graph.HasPath(class.Format, rec.View()) {
		return &validate.IncompatibleViewError{
			Type:      rec.Context(),
			Validator: rec.Name(),
			Plugin:    rec.Plugin(),
			Format:    class.FormatID(),
			View:      view,
			Err:       validate.ErrNoTransformer,
		}
	}
	return nil
}

func (m *Manager) observe(rec validate.Record, elapsed time.Duration, err error) {
	m.metrics.ObserveValidator(rec.Plugin(), elapsed)
	m.logger.Log(context.Background(), logging.LevelTrace, "validator finished",
		"type", rec.Context().String(),
		"validator", rec.Name(),
		"plugin", rec.Plugin(),
		"elapsed", elapsed,
		"failed", err != nil,
	)
}

// RemovePlugin uninstalls the named plugin and rebuilds the manager from
// the remaining plugins in their original order. If a remaining plugin
// depends on the removed one, nothing changes and the error names it.
func (m *Manager) RemovePlugin(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.plugins, func(p *Plugin) bool { return p.Name == name })
	if idx < 0 {
		return errors.Wrapf(ErrPluginNotInstalled, "%q", name)
	}

	// The rebuild runs on a staging manager without metrics so a failure
	// leaves m and its gauges untouched.
	staging := &Manager{logger: m.logger}
	staging.resetLocked()
	for i, p := range m.plugins {
		if i == idx {
			continue
		}
		if err := staging.install(p); err != nil {
			return errors.Wrapf(err, "removing %q breaks plugin %q", name, p.Name)
		}
	}

	// Objects built by staging observe through it.
	staging.metrics = m.metrics
	m.plugins = staging.plugins
	m.classes = staging.classes
	m.validators = staging.validators
	m.graph = staging.graph
	m.metrics.SetPlugins(len(m.plugins))

	m.logger.Debug("removed plugin", "plugin", name)
	return nil
}

// Reset forgets every installed plugin.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

// Plugins returns the installed plugins in installation order.
func (m *Manager) Plugins() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.plugins)
}

// Plugin returns the installed plugin with the given name.
func (m *Manager) Plugin(name string) (*Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plugins {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Lookup returns the validation object for t, if any validators are
// registered for it.
func (m *Manager) Lookup(t semtype.Type) (*validate.Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.validators[t.Key()]
	return obj, ok
}

// ArtifactClass returns the artifact class registered for t.
func (m *Manager) ArtifactClass(t semtype.Type) (ArtifactClass, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classes[t.Key()]
	return c, ok
}

// Types returns every concrete type with an artifact class or validators,
// sorted by name.
func (m *Manager) Types() []semtype.Type {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]semtype.Type, len(m.classes)+len(m.validators))
	for k, c := range m.classes {
		seen[k] = c.Type
	}
	for k, obj := range m.validators {
		seen[k] = obj.ConcreteType()
	}

	out := make([]semtype.Type, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b semtype.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
	return out
}

// Open reads the file at path as the stored format of t.
func (m *Manager) Open(t semtype.Type, path string) (any, error) {
	class, ok := m.ArtifactClass(t)
	if !ok {
		return nil, errors.Wrapf(validate.ErrUnknownArtifactClass, "%s", t)
	}
	if class.Open == nil {
		return nil, errors.Newf("artifact class %s from plugin %q cannot be opened from a file", t, class.Plugin)
	}
	data, err := class.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s as %s", path, t)
	}
	return data, nil
}

// Validate runs the validators registered for t against data. A type
// with no validators is valid.
func (m *Manager) Validate(ctx context.Context, t semtype.Type, data any, level validate.Level) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	obj, ok := m.Lookup(t)
	if !ok {
		m.metrics.IncrementValidation(t.String(), metrics.OutcomeNone)
		m.logger.DebugContext(ctx, "no validators registered", "type", t.String())
		return nil
	}

	err := obj.Validate(data, level)
	outcome := metrics.OutcomeValid
	switch {
	case err == nil:
	case errors.Is(err, validate.ErrValidation):
		outcome = metrics.OutcomeInvalid
	default:
		outcome = metrics.OutcomeFault
	}
	m.metrics.IncrementValidation(t.String(), outcome)
	m.logger.DebugContext(ctx, "validated",
		"type", t.String(),
		"level", string(level),
		"validators", obj.Len(),
		"outcome", outcome,
	)
	return err
}

// ValidateFile opens path as the stored format of t and validates it.
func (m *Manager) ValidateFile(ctx context.Context, t semtype.Type, path string, level validate.Level) error {
	data, err := m.Open(t, path)
	if err != nil {
		return err
	}
	return m.Validate(ctx, t, data, level)
}
