package commands

import (
	"github.com/johnchase/qiime2/internal/builtin"
	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/manifest"
	"github.com/johnchase/qiime2/internal/plugin"
)

// manifestDirs returns the manifest directories in precedence order:
// --plugin-dir flags, then configured directories.
func (a *app) manifestDirs() []string {
	dirs := append([]string{}, a.pluginDirs...)
	return append(dirs, a.cfg.PluginDirs...)
}

// newManager installs the builtin plugin and every enabled manifest
// plugin. The builtin plugin goes first so manifests can use its formats
// and views.
func (a *app) newManager() (*plugin.Manager, error) {
	m := plugin.NewManager(plugin.WithLogger(a.logger), plugin.WithMetrics(a.metrics))

	if a.cfg.Disabled(builtin.Name) {
		a.logger.Info("builtin plugin disabled")
	} else {
		p, err := builtin.New()
		if err != nil {
			return nil, errors.NewSystemError(err, "The builtin plugin failed to build; please report this")
		}
		if err := m.AddPlugin(p); err != nil {
			return nil, errors.NewSystemError(err, "The builtin plugin failed to install; please report this")
		}
	}

	files, err := manifest.Discover(a.manifestDirs()...)
	if err != nil {
		return nil, errors.NewSystemError(err, "Check that plugin_dirs are readable")
	}

	for _, file := range files {
		mf, err := manifest.Load(file)
		if err != nil {
			return nil, errors.NewUserError(err, "Run: qval plugin check "+file)
		}
		if a.cfg.Disabled(mf.Plugin.Name) {
			a.logger.Info("plugin disabled", "plugin", mf.Plugin.Name, "file", file)
			continue
		}
		p, err := mf.Build()
		if err != nil {
			return nil, errors.NewUserError(err, "Run: qval plugin check "+file)
		}
		if err := m.AddPlugin(p); err != nil {
			return nil, errors.NewUserError(errors.Wrapf(err, "installing %s", file), "Run: qval plugin check "+file)
		}
		a.logger.Info("installed manifest plugin", "plugin", p.Name, "file", file)
	}

	return m, nil
}
