package commands

import (
	"github.com/spf13/cobra"

	"github.com/johnchase/qiime2/internal/batch"
	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/report"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/validate"
)

type validateOptions struct {
	typeName    string
	level       string
	format      string
	concurrency int
}

func newValidateCmd(a *app) *cobra.Command {
	opts := &validateOptions{}

	c := &cobra.Command{
		Use:   "validate --type TYPE FILE...",
		Short: "Validate files as a semantic type",
		Long: `Validate one or more files against every validator registered for a
concrete semantic type.

Validators run in priority order and stop at the first failure for each file.
At level min, validators may perform a faster, partial check.

Exit status is 0 when every file is valid, 3 when any file is invalid,
4 when a validator or transformer failed unexpectedly, and 1 when a file
could not be read.`,
		Example: `  # Validate a sequence file
  qval validate --type AscIntSequence data.txt

  # Quick check of many files, JSON report
  qval validate --type "Kennel[Dog]" --level min --format json kennels/*.tsv

  See Also:
    qval type show  - Show the validators that will run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runValidate(c, a, opts, args)
		},
	}

	c.Flags().StringVarP(&opts.typeName, "type", "t", "", "concrete semantic type of the files (required)")
	c.Flags().StringVarP(&opts.level, "level", "l", "", "validation level: min or max (default from config)")
	c.Flags().StringVarP(&opts.format, "format", "f", "text", "report format: text, json")
	c.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "files validated at once (default from config)")
	_ = c.MarkFlagRequired("type")
	return c
}

func runValidate(c *cobra.Command, a *app, opts *validateOptions, files []string) (err error) {
	typ, err := semtype.ParseType(opts.typeName)
	if err != nil {
		return errors.NewUserError(err, `Types look like "Squid" or "Kennel[Dog]"`)
	}

	levelName := opts.level
	if levelName == "" {
		levelName = a.cfg.DefaultLevel
	}
	level, err := validate.ParseLevel(levelName)
	if err != nil {
		return errors.NewUserError(err, "Use --level min or --level max")
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return errors.NewUserError(err, "Use --format text or --format json")
	}

	concurrency := opts.concurrency
	if concurrency <= 0 {
		concurrency = a.cfg.Concurrency
	}

	m, err := a.newManager()
	if err != nil {
		return err
	}
	defer func() {
		if werr := a.writeMetrics(); werr != nil && err == nil {
			err = werr
		}
	}()

	if _, ok := m.ArtifactClass(typ); !ok {
		return errors.NewUserError(errors.Wrapf(errors.ErrUnknownType, "%s", typ), "Run: qval type list")
	}

	items := make([]batch.Item, len(files))
	for i, f := range files {
		items[i] = batch.Item{Path: f, Type: typ}
	}

	runner := batch.New(m, batch.WithConcurrency(concurrency), batch.WithLogger(a.logger))
	result, err := runner.Run(c.Context(), items, level)
	if err != nil {
		return errors.NewSystemError(err, "Validation was interrupted")
	}

	if err := report.NewReporter(c.OutOrStdout(), format).Report(result); err != nil {
		return errors.NewSystemError(err, "Failed to write the report")
	}

	switch {
	case result.HasFaults():
		return errors.NewExitErrorWithSuggestion(result.Err(), errors.ExitFault,
			"A validator or transformer failed unexpectedly; this is a bug in the plugin named in the report")
	case result.HasErrors():
		return errors.NewExitError(errors.Mark(result.Err(), errors.ErrValidationFailed), errors.ExitInvalid)
	case result.HasUnreadable():
		return errors.NewUserError(result.Err(), "Check that the listed files exist and are readable")
	}
	return nil
}
