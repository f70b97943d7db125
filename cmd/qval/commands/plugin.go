package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johnchase/qiime2/internal/builtin"
	"github.com/johnchase/qiime2/internal/editor"
	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/manifest"
	"github.com/johnchase/qiime2/internal/paths"
	"github.com/johnchase/qiime2/internal/plugin"
	"github.com/johnchase/qiime2/pkg/fileutil"
)

func newPluginCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "plugin",
		Short: "Manage validator plugins",
		Long: `List installed plugins, check manifest plugins, and scaffold new ones.

Manifest plugins are YAML or TOML files placed in a plugin directory
(see --plugin-dir and the plugin_dirs config key).`,
	}
	c.AddCommand(
		newPluginListCmd(a),
		newPluginCheckCmd(a),
		newPluginInitCmd(),
		newPluginEditCmd(a),
		newPluginConvertCmd(),
	)
	return c
}

// pluginJSON represents a plugin in JSON output format.
type pluginJSON struct {
	plugin.Metadata
	Validators      int      `json:"validators"`
	Types           []string `json:"types"`
	ArtifactClasses int      `json:"artifact_classes"`
	Transformers    int      `json:"transformers"`
}

func describePlugin(p *plugin.Plugin) pluginJSON {
	seen := make(map[string]struct{})
	var types []string
	for _, r := range p.Validators() {
		key := r.Context().String()
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			types = append(types, key)
		}
	}
	sort.Strings(types)
	return pluginJSON{
		Metadata:        p.Metadata,
		Validators:      len(p.Validators()),
		Types:           types,
		ArtifactClasses: len(p.ArtifactClasses()),
		Transformers:    p.TransformerCount(),
	}
}

func newPluginListCmd(a *app) *cobra.Command {
	var asJSON, showValidators bool

	c := &cobra.Command{
		Use:   "list",
		Short: "List installed plugins",
		Example: `  # List plugins
  qval plugin list

  # Include each plugin's validators
  qval plugin list --validators`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := a.newManager()
			if err != nil {
				return err
			}
			plugins := m.Plugins()
			if asJSON {
				return writePluginsJSON(c.OutOrStdout(), plugins)
			}
			return writePluginsTable(c.OutOrStdout(), plugins, showValidators)
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	c.Flags().BoolVar(&showValidators, "validators", false, "Show each plugin's validators")
	return c
}

func writePluginsJSON(w io.Writer, plugins []*plugin.Plugin) error {
	out := make([]pluginJSON, len(plugins))
	for i, p := range plugins {
		out[i] = describePlugin(p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding plugins")
}

func writePluginsTable(w io.Writer, plugins []*plugin.Plugin, showValidators bool) error {
	if len(plugins) == 0 {
		fmt.Fprintln(w, "No plugins installed.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tVALIDATORS\tTYPES")
	for _, p := range plugins {
		d := describePlugin(p)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.Name, d.Version, d.Validators, truncate(strings.Join(d.Types, ", "), 60))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing table")
	}

	if !showValidators {
		return nil
	}
	for _, p := range plugins {
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint(p.Name))
		for _, r := range p.Validators() {
			fmt.Fprintf(w, "  %-28s %-8s %s\n", r.Name(), r.Validator().Priority, r.Context())
		}
	}
	return nil
}

func newPluginCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check MANIFEST...",
		Short: "Check manifest plugins",
		Long: `Load each manifest, register its validators, and install it alongside the
builtin plugin. Reports registration problems such as missing params,
unknown views, and views that cannot be produced from a type's stored format.`,
		Example: `  qval plugin check ~/.config/qval/plugins/sequences.yaml`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			w := c.OutOrStdout()
			var failed int
			for _, file := range args {
				if err := checkManifest(a, file); err != nil {
					failed++
					fmt.Fprintf(w, "%s %s\n    %v\n", color.RedString("✗"), file, err)
					continue
				}
				fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), file)
			}
			if failed > 0 {
				return errors.NewUserError(errors.Newf("%d of %d manifest(s) failed", failed, len(args)),
					"Fix the reported problems and re-run qval plugin check")
			}
			return nil
		},
	}
}

func checkManifest(a *app, file string) error {
	mf, err := manifest.Load(file)
	if err != nil {
		return err
	}
	p, err := mf.Build()
	if err != nil {
		return err
	}
	m := plugin.NewManager(plugin.WithLogger(a.logger))
	if err := m.AddPlugin(builtin.MustNew()); err != nil {
		return err
	}
	return m.AddPlugin(p)
}

func newPluginInitCmd() *cobra.Command {
	var dir, format string
	var force bool

	c := &cobra.Command{
		Use:   "init NAME",
		Short: "Scaffold a manifest plugin",
		Example: `  # Write ~/.config/qval/plugins/my_checks.yaml
  qval plugin init my_checks

  # TOML, in the current directory
  qval plugin init my_checks --format toml --dir .`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			name := args[0]
			if dir == "" {
				dir = paths.ConfigPlugins()
			}
			if format != string(fileutil.EncodingYAML) && format != string(fileutil.EncodingTOML) {
				return errors.NewUserError(errors.Newf("unknown format %q", format), "Use --format yaml or --format toml")
			}

			path := filepath.Join(dir, name+"."+format)
			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewUserError(errors.Newf("%s already exists", path), "Use --force to overwrite")
			}
			if err := paths.EnsureDir(dir, 0); err != nil {
				return errors.NewSystemError(err, "Check that the plugin directory is writable")
			}
			if err := manifest.Write(path, manifest.Scaffold(name)); err != nil {
				return errors.NewSystemError(err, "Check that the plugin directory is writable")
			}

			fmt.Fprintf(c.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	c.Flags().StringVar(&dir, "dir", "", "directory to write the manifest to (default: the config plugin directory)")
	c.Flags().StringVar(&format, "format", "yaml", "manifest format: yaml, toml")
	c.Flags().BoolVar(&force, "force", false, "overwrite an existing manifest")
	return c
}

func newPluginConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "convert SRC DST",
		Short:   "Convert a manifest between YAML and TOML",
		Example: `  qval plugin convert sequences.yaml sequences.toml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			from, err := fileutil.EncodingFor(src)
			if err != nil {
				return errors.NewUserError(err, "Manifests end in .yaml, .yml or .toml")
			}
			to, err := fileutil.EncodingFor(dst)
			if err != nil {
				return errors.NewUserError(err, "Manifests end in .yaml, .yml or .toml")
			}
			data, err := fileutil.ReadFileWithLimit(src)
			if err != nil {
				return errors.NewUserError(err, "Check that the source manifest exists")
			}
			out, err := manifest.Convert(data, from, to)
			if err != nil {
				return errors.NewUserError(err, "Run: qval plugin check "+src)
			}
			if err := fileutil.AtomicWriteFile(dst, out, 0o644); err != nil {
				return errors.NewSystemError(err, "Check that the destination is writable")
			}
			fmt.Fprintf(c.OutOrStdout(), "Wrote %s\n", dst)
			return nil
		},
	}
}

func newPluginEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit NAME",
		Short: "Open a manifest plugin in your editor",
		Long: `Open the manifest for plugin NAME in $QVAL_EDITOR, $EDITOR or $VISUAL,
then check it once the editor exits.

NAME matches either the plugin name declared in the manifest or the
manifest's file name without its extension.`,
		Example: `  EDITOR="code --wait" qval plugin edit my_checks`,
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path, err := findManifest(a.manifestDirs(), args[0])
			if err != nil {
				return err
			}

			w := c.OutOrStdout()
			fmt.Fprintf(w, "Location: %s\n", path)
			if err := editor.Open(c.Context(), path); err != nil {
				return errors.NewSystemError(err, "Set QVAL_EDITOR or EDITOR to an installed editor")
			}

			if err := checkManifest(a, path); err != nil {
				return errors.NewUserError(err, "Run: qval plugin edit "+args[0])
			}
			fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), path)
			return nil
		},
	}
}

// findManifest returns the manifest in dirs whose plugin or file name is
// name. Earlier directories win.
func findManifest(dirs []string, name string) (string, error) {
	files, err := manifest.Discover(dirs...)
	if err != nil {
		return "", errors.NewSystemError(err, "Check that plugin_dirs are readable")
	}
	for _, file := range files {
		if strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) == name {
			return file, nil
		}
	}
	for _, file := range files {
		if mf, err := manifest.Load(file); err == nil && mf.Plugin.Name == name {
			return file, nil
		}
	}
	return "", errors.NewUserError(errors.Wrapf(plugin.ErrPluginNotInstalled, "%s", name), "Run: qval plugin list")
}
