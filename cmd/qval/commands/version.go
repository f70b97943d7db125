package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/johnchase/qiime2/cmd"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			w := c.OutOrStdout()
			fmt.Fprintf(w, "qval %s\n", cmd.Version)
			fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
			fmt.Fprintf(w, "  built:  %s\n", cmd.Date)
			fmt.Fprintf(w, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
