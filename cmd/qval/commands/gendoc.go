package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/johnchase/qiime2/cmd"
	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/paths"
)

func newGenDocCmd() *cobra.Command {
	var dir, format string

	c := &cobra.Command{
		Use:    "gen-doc",
		Short:  "Generate reference documentation for the CLI",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if dir == "" {
				return errors.NewUserError(errors.New("output directory is required"), "Use --dir DIR")
			}
			if err := paths.EnsureDir(dir, 0o755); err != nil {
				return errors.NewSystemError(err, "Check that the output directory is writable")
			}

			root := c.Root()
			root.DisableAutoGenTag = true

			var err error
			switch format {
			case "markdown":
				err = doc.GenMarkdownTreeCustom(root, dir, filePrepender, linkHandler)
			case "man":
				err = doc.GenManTree(root, &doc.GenManHeader{
					Title:   "QVAL",
					Section: "1",
					Source:  "qval " + cmd.Version,
				}, dir)
			default:
				return errors.NewUserError(errors.Newf("unknown format %q", format), "Use --format markdown or --format man")
			}
			if err != nil {
				return errors.NewSystemError(errors.Wrapf(err, "generating %s", format), "Check that the output directory is writable")
			}

			fmt.Fprintf(c.OutOrStdout(), "Documentation generated in %s\n", dir)
			return nil
		},
	}
	c.Flags().StringVarP(&dir, "dir", "d", "", "output directory for documentation")
	c.Flags().StringVar(&format, "format", "markdown", "output format: markdown, man")
	return c
}

// filePrepender adds front matter titled after the command path, so
// qval_plugin_init.md becomes "qval plugin init".
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	title := strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/reference/" + strings.ToLower(base) + "/"
}
