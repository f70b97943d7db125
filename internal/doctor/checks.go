package doctor

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/johnchase/qiime2/internal/builtin"
	"github.com/johnchase/qiime2/internal/config"
	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/manifest"
	"github.com/johnchase/qiime2/internal/plugin"
)

// ConfigCheck reports which config file is in effect and whether it is
// valid and safely writable.
type ConfigCheck struct {
	file string
	cfg  *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck checks cfg, loaded from file. An empty file means the
// defaults are in effect.
func NewConfigCheck(file string, cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{file: file, cfg: cfg}
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "config" }

func (c *ConfigCheck) Run() []*CheckResult {
	res := &CheckResult{Subject: c.file}

	switch errs := config.Validate(c.cfg); {
	case len(errs) > 0:
		res.Status = SeverityError
		res.Message = errors.Join(errs...).Error()
		res.FixHint = "Edit " + c.displayFile()
	case c.file == "":
		res.Status = SeverityInfo
		res.Message = "no config file found; using defaults"
	default:
		if issue := worldWritable(c.file); issue != "" {
			res.Status = SeverityWarning
			res.Message = issue
			res.FixHint = "chmod 644 " + c.file
		} else {
			res.Message = "config is valid"
		}
	}
	return []*CheckResult{res}
}

func (c *ConfigCheck) displayFile() string {
	if c.file == "" {
		return "the config file"
	}
	return c.file
}

// PluginDirCheck inspects each manifest plugin directory.
type PluginDirCheck struct {
	dirs []string
}

var _ Check = (*PluginDirCheck)(nil)

// NewPluginDirCheck checks dirs. Missing directories are not a problem.
func NewPluginDirCheck(dirs []string) *PluginDirCheck {
	return &PluginDirCheck{dirs: dirs}
}

func (c *PluginDirCheck) Name() string     { return "plugin-dirs" }
func (c *PluginDirCheck) Category() string { return "filesystem" }

func (c *PluginDirCheck) Run() []*CheckResult {
	if len(c.dirs) == 0 {
		return []*CheckResult{{Status: SeverityInfo, Message: "no plugin directories configured"}}
	}

	results := make([]*CheckResult, 0, len(c.dirs))
	for _, dir := range c.dirs {
		results = append(results, c.inspect(dir))
	}
	return results
}

func (c *PluginDirCheck) inspect(dir string) *CheckResult {
	res := &CheckResult{Subject: dir}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		res.Status = SeverityInfo
		res.Message = "not present"
		return res
	case err != nil:
		res.Status = SeverityError
		res.Message = err.Error()
		return res
	case !info.IsDir():
		res.Status = SeverityError
		res.Message = "not a directory"
		res.FixHint = "Remove " + dir + " from plugin_dirs"
		return res
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		res.Status = SeverityError
		res.Message = "not readable"
		res.FixHint = "chmod 755 " + dir
		return res
	}
	if issue := worldWritable(dir); issue != "" {
		res.Status = SeverityWarning
		res.Message = issue
		res.FixHint = "chmod 755 " + dir
		return res
	}

	res.Message = fmt.Sprintf("%d entries", len(entries))
	return res
}

// ManifestCheck installs every discovered manifest plugin alongside the
// builtin plugin, one result per manifest. Manifests install in discovery
// order, so a plugin that depends on an earlier one is checked against it.
type ManifestCheck struct {
	dirs     []string
	disabled func(name string) bool
	logger   *slog.Logger
}

var _ Check = (*ManifestCheck)(nil)

// NewManifestCheck checks the manifests found in dirs. Plugins for which
// disabled returns true are loaded but not installed.
func NewManifestCheck(dirs []string, disabled func(name string) bool, logger *slog.Logger) *ManifestCheck {
	if disabled == nil {
		disabled = func(string) bool { return false }
	}
	return &ManifestCheck{dirs: dirs, disabled: disabled, logger: logger}
}

func (c *ManifestCheck) Name() string     { return "manifests" }
func (c *ManifestCheck) Category() string { return "plugins" }

func (c *ManifestCheck) Run() []*CheckResult {
	files, err := manifest.Discover(c.dirs...)
	if err != nil {
		return []*CheckResult{{Status: SeverityError, Message: err.Error()}}
	}
	if len(files) == 0 {
		return []*CheckResult{{Status: SeverityInfo, Message: "no manifest plugins found"}}
	}

	m := plugin.NewManager(plugin.WithLogger(c.logger))
	if err := m.AddPlugin(builtin.MustNew()); err != nil {
		return []*CheckResult{{Subject: "builtin", Status: SeverityError, Message: err.Error()}}
	}

	results := make([]*CheckResult, 0, len(files))
	for _, file := range files {
		results = append(results, c.install(m, file))
	}
	return results
}

// install reports on one manifest. The subject is the plugin name, or the
// file when the manifest cannot be parsed.
func (c *ManifestCheck) install(m *plugin.Manager, file string) *CheckResult {
	res := &CheckResult{Subject: file, Details: map[string]any{"file": file}}

	mf, err := manifest.Load(file)
	if err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = "Run: qval plugin check " + file
		return res
	}
	res.Subject = mf.Plugin.Name

	if c.disabled(mf.Plugin.Name) {
		res.Status = SeverityInfo
		res.Message = "disabled"
		return res
	}

	p, err := mf.Build()
	if err == nil {
		err = m.AddPlugin(p)
	}
	if err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = "Run: qval plugin edit " + mf.Plugin.Name
		return res
	}

	if issue := worldWritable(file); issue != "" {
		res.Status = SeverityWarning
		res.Message = issue
		res.FixHint = "chmod 644 " + file
		return res
	}

	res.Message = fmt.Sprintf("%d validator(s) installed", len(p.Validators()))
	return res
}

// DuplicateValidatorCheck warns about each semantic type that runs two
// validators with the same name, usually because two plugins declare the
// same check.
type DuplicateValidatorCheck struct {
	m *plugin.Manager
}

var _ Check = (*DuplicateValidatorCheck)(nil)

// NewDuplicateValidatorCheck inspects the validators installed in m.
func NewDuplicateValidatorCheck(m *plugin.Manager) *DuplicateValidatorCheck {
	return &DuplicateValidatorCheck{m: m}
}

func (c *DuplicateValidatorCheck) Name() string     { return "duplicate-validators" }
func (c *DuplicateValidatorCheck) Category() string { return "plugins" }

func (c *DuplicateValidatorCheck) Run() []*CheckResult {
	var results []*CheckResult
	var total int
	types := c.m.Types()

	for _, t := range types {
		obj, ok := c.m.Lookup(t)
		if !ok {
			continue
		}
		byName := make(map[string][]string)
		var order, dups []string
		for _, r := range obj.Validators() {
			total++
			if _, seen := byName[r.Name()]; !seen {
				order = append(order, r.Name())
			}
			byName[r.Name()] = append(byName[r.Name()], r.Plugin())
		}
		for _, name := range order {
			if plugins := byName[name]; len(plugins) > 1 {
				dups = append(dups, fmt.Sprintf("%s (%s)", name, strings.Join(plugins, ", ")))
			}
		}
		if len(dups) > 0 {
			results = append(results, &CheckResult{
				Subject: t.String(),
				Status:  SeverityWarning,
				Message: "registered more than once: " + strings.Join(dups, "; "),
				Details: map[string]any{"duplicates": dups},
				FixHint: "Rename or disable one of the duplicate validators",
			})
		}
	}

	if len(results) == 0 {
		results = append(results, &CheckResult{
			Message: fmt.Sprintf("%d validator(s) across %d type(s)", total, len(types)),
		})
	}
	return results
}

// worldWritable returns a problem description when path is world-writable.
func worldWritable(path string) string {
	if runtime.GOOS == "windows" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	if info.Mode().Perm()&0o002 != 0 {
		return fmt.Sprintf("world-writable (mode %04o)", info.Mode().Perm())
	}
	return ""
}
