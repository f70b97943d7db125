// Package commands implements the CLI commands for qval.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/johnchase/qiime2/cmd"
	"github.com/johnchase/qiime2/internal/builtin"
	"github.com/johnchase/qiime2/internal/config"
	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/logging"
	"github.com/johnchase/qiime2/internal/metrics"
)

// app holds state shared by every command for a single invocation.
type app struct {
	// Flags
	configPath string
	pluginDirs []string
	verbosity  int
	quiet      bool
	logFormat  string
	logFile    string
	colorMode  string

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	closers  []io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "qval",
		Short: "Validate data against semantic types",
		Long: `qval validates stored data against the validators registered for its
semantic type.

Validators come from plugins: the builtin plugin compiled into qval and
declarative manifest plugins (YAML or TOML) found in the plugin directories.
Each validator declares the view of the data it needs; qval transforms the
stored format into that view and runs validators in priority order
(first, middle, last), stopping at the first failure.`,
		Example: `  # Validate two files as AscIntSequence
  qval validate --type AscIntSequence a.txt b.txt

  # See which validators run for a type, in order
  qval type show Squid

  # Scaffold a manifest plugin
  qval plugin init my_checks

  See Also: qval plugin list, qval type list`,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return a.setup(c)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.teardown()
		},
		Run: func(c *cobra.Command, _ []string) {
			_ = c.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       cmd.Version,
	}
	root.SetVersionTemplate("qval version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./config.yaml, then $XDG_CONFIG_HOME/qval/config.yaml)")
	flags.StringArrayVar(&a.pluginDirs, "plugin-dir", nil, "additional manifest plugin directory (repeatable)")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase verbosity level (e.g., -v, -vv)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text, json")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to file in JSON format")
	flags.StringVar(&a.colorMode, "color", "auto", "colorize output: auto, always, never")

	root.AddCommand(
		newValidateCmd(a),
		newPluginCmd(a),
		newTypeCmd(a),
		newDoctorCmd(a),
		newVersionCmd(),
		newGenDocCmd(),
	)
	return root
}

// setup configures logging, loads configuration and prepares metrics.
func (a *app) setup(c *cobra.Command) error {
	builtin.Version = cmd.Version

	if err := a.setupLogging(c); err != nil {
		return err
	}

	config.Init()
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return errors.NewConfigError(err)
	}
	a.cfg = cfg
	a.logger.Debug("loaded config", "file", config.ConfigFileUsed())

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)
	return nil
}

// setupLogging configures the default logger based on verbosity flags.
func (a *app) setupLogging(c *cobra.Command) error {
	if a.quiet && a.verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	mode, err := logging.ParseColorMode(a.colorMode)
	if err != nil {
		return errors.NewUserError(err, "Use --color auto, always or never")
	}
	color.NoColor = !logging.ColorEnabled(c.OutOrStdout(), mode)

	var level slog.Level
	if a.quiet {
		level = slog.LevelError
	} else {
		v := a.verbosity
		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			switch os.Getenv("QVAL_DEBUG") {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	handlers := []slog.Handler{logging.NewHandlerFor(logging.Config{
		Level:  level,
		Format: logging.Format(a.logFormat),
		Output: c.ErrOrStderr(),
		Color:  mode,
	})}

	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		a.closers = append(a.closers, f)
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	}

	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c.SetContext(logging.NewContext(ctx, a.logger))
	return nil
}

func (a *app) teardown() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// writeMetrics writes the invocation's metrics when a metrics file is
// configured.
func (a *app) writeMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile, a.registry); err != nil {
		return errors.NewSystemError(err, "Check that metrics_file points to a writable location")
	}
	a.logger.Debug("wrote metrics", "file", a.cfg.MetricsFile)
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitSuccess
	}
	printError(stderr, err)
	return exitCode(err)
}

func exitCode(err error) int {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return errors.ExitUser
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}
