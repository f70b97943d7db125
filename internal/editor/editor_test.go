package editor

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name   string
		qval   string
		editor string
		visual string
		want   []string
	}{
		{"qval editor wins", "hx", "nvim", "code", []string{"hx"}},
		{"editor", "", "nvim", "code", []string{"nvim"}},
		{"visual", "", "", "code", []string{"code"}},
		{"blank treated as unset", "", "   ", "code", []string{"code"}},
		{"arguments split", "", "code --wait", "", []string{"code", "--wait"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvVar, tt.qval)
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			if got := Command(); !slices.Equal(got, tt.want) {
				t.Errorf("Command() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommand_Fallback(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	want := "vi"
	if _, err := exec.LookPath("nano"); err == nil {
		want = "nano"
	}
	if got := Command(); len(got) != 1 || got[0] != want {
		t.Errorf("Command() = %q, want [%s]", got, want)
	}
}

func TestOpen_Integration(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping integration test on windows (uses shell script mock)")
	}

	tmpDir := t.TempDir()
	mockEditor := filepath.Join(tmpDir, "mock-editor.sh")
	outputFile := filepath.Join(tmpDir, "output.txt")

	// Mock editor that records its arguments
	script := "#!/bin/sh\necho \"$@\" > " + outputFile + "\n"
	if err := os.WriteFile(mockEditor, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, mockEditor+" --flag")

	target := filepath.Join(tmpDir, "plugin.yaml")
	if err := os.WriteFile(target, []byte("plugin: {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Open(t.Context(), target); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	if want := "--flag " + target; !strings.Contains(string(got), want) {
		t.Errorf("mock editor output = %q, want it to contain %q", got, want)
	}
}

func TestOpen_MissingEditor(t *testing.T) {
	t.Setenv(EnvVar, "non-existent-binary-12345")

	if err := Open(t.Context(), "plugin.yaml"); err == nil {
		t.Error("expected error for non-existent editor, got nil")
	}
}
