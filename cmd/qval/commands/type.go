package commands

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/plugin"
	"github.com/johnchase/qiime2/internal/semtype"
)

func newTypeCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "type",
		Short: "Inspect semantic types",
	}
	c.AddCommand(
		newTypeListCmd(a),
		newTypeShowCmd(a),
		newTypePickCmd(a),
	)
	return c
}

func newTypeListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List semantic types with an artifact class or validators",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := a.newManager()
			if err != nil {
				return err
			}
			types := m.Types()
			w := c.OutOrStdout()
			if len(types) == 0 {
				fmt.Fprintln(w, "No types registered.")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tFORMAT\tVALIDATORS")
			for _, t := range types {
				format := "-"
				if class, ok := m.ArtifactClass(t); ok {
					format = typeName(class.Format)
				}
				var n int
				if obj, ok := m.Lookup(t); ok {
					n = obj.Len()
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", t, format, n)
			}
			return errors.Wrap(tw.Flush(), "writing table")
		},
	}
}

func newTypeShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show TYPE",
		Short: "Show the validators that run for a type, in order",
		Example: `  qval type show Squid
  qval type show "Kennel[Dog]"`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			t, err := semtype.ParseType(args[0])
			if err != nil {
				return errors.NewUserError(err, "Types look like Name or Name[Field, ...]")
			}
			m, err := a.newManager()
			if err != nil {
				return err
			}
			_, hasClass := m.ArtifactClass(t)
			_, hasValidators := m.Lookup(t)
			if !hasClass && !hasValidators {
				return errors.NewUserError(errors.Wrapf(errors.ErrUnknownType, "%s", t), "Run: qval type list")
			}
			return writeTypeDetail(c.OutOrStdout(), m, t)
		},
	}
}

func writeTypeDetail(w io.Writer, m *plugin.Manager, t semtype.Type) error {
	fmt.Fprintf(w, "Type: %s\n", t)
	if class, ok := m.ArtifactClass(t); ok {
		fmt.Fprintf(w, "Format: %s (plugin %s)\n", typeName(class.Format), class.Plugin)
	}

	obj, ok := m.Lookup(t)
	if !ok || obj.Len() == 0 {
		fmt.Fprintln(w, "\nNo validators registered.")
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVALIDATOR\tPRIORITY\tPLUGIN\tVIEW")
	for i, r := range obj.Validators() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Name(), r.Validator().Priority, r.Plugin(), typeName(r.View()))
	}
	return errors.Wrap(tw.Flush(), "writing table")
}

func newTypePickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Interactively choose a type and show its validators",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := a.newManager()
			if err != nil {
				return err
			}
			types := m.Types()
			w := c.OutOrStdout()
			if len(types) == 0 {
				fmt.Fprintln(w, "No types registered.")
				return nil
			}

			idx, err := fuzzyfinder.Find(
				types,
				func(i int) string { return types[i].String() },
				fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
					if i == -1 {
						return ""
					}
					var sb strings.Builder
					_ = writeTypeDetail(&sb, m, types[i])
					return sb.String()
				}),
			)
			if err != nil {
				if errors.Is(err, fuzzyfinder.ErrAbort) {
					return nil
				}
				return errors.Wrap(err, "interactive selection failed")
			}
			return writeTypeDetail(w, m, types[idx])
		},
	}
}

// typeName renders a Go type for display.
func typeName(t reflect.Type) string {
	if t == nil {
		return "-"
	}
	return t.String()
}
