// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/johnchase/qiime2/internal/errors"
)

// EnvVar overrides $EDITOR and $VISUAL for qval only.
const EnvVar = "QVAL_EDITOR"

// Open runs the user's editor on path and waits for it to exit. The editor
// inherits the process's standard streams.
func Open(ctx context.Context, path string) error {
	argv := Command()
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// Command returns the editor command line, split on whitespace so values
// like "code --wait" work. Fallback chain: $QVAL_EDITOR → $EDITOR →
// $VISUAL → nano → vi.
func Command() []string {
	for _, env := range []string{EnvVar, "EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return []string{"nano"}
	}

	// POSIX standard fallback
	return []string{"vi"}
}
