package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnchase/qiime2/internal/errors"
)

func TestDoctor_Clean(t *testing.T) {
	env := newTestEnv(t)

	code, out, errOut := env.run(t, "doctor", "-v")
	require.Equal(t, errors.ExitSuccess, code, "stdout: %s\nstderr: %s", out, errOut)
	assert.Contains(t, out, "[config] config")
	assert.Contains(t, out, "Summary: ")
	assert.Contains(t, out, "0 errors")
}

func TestDoctor_BrokenManifest(t *testing.T) {
	env := newTestEnv(t)
	env.file(t, filepath.Join("plugins", "broken.yaml"), "plugin:\n  name: broken\nvalidators:\n  - name: x\n    types: Whale\n    view: ints\n    rule: non_empty\n")

	code, out, _ := env.run(t, "doctor", "--json")
	assert.Equal(t, errors.ExitSystem, code)

	var report struct {
		Results []struct {
			Name    string `json:"name"`
			Subject string `json:"subject"`
			Status  string `json:"status"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	statuses := make(map[string]string)
	for _, r := range report.Results {
		statuses[r.Name+"/"+r.Subject] = r.Status
	}
	assert.Equal(t, "error", statuses["manifests/broken"])
	for key := range statuses {
		assert.NotContains(t, key, "duplicate-validators")
	}

	code, out, _ = env.run(t, "doctor")
	assert.Equal(t, errors.ExitSystem, code)
	assert.Contains(t, out, "[plugins] manifests broken: ")
	assert.Contains(t, out, "hint: Run: qval plugin edit broken")
	assert.Contains(t, out, "Needs attention: broken")
}

func TestDoctor_Quiet(t *testing.T) {
	env := newTestEnv(t)
	env.file(t, filepath.Join("plugins", "broken.yaml"), "plugin: [")

	code, out, _ := env.run(t, "doctor", "-q")
	assert.Equal(t, errors.ExitSystem, code)
	assert.Empty(t, out)
}

func TestPluginEdit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script editor")
	}
	env := newTestEnv(t)

	code, _, errOut := env.run(t, "plugin", "init", "edited", "--dir", env.plugins)
	require.Equal(t, errors.ExitSuccess, code, "stderr: %s", errOut)
	path := filepath.Join(env.plugins, "edited.yaml")

	// An editor that replaces the manifest with one using an unknown rule.
	edited := filepath.Join(env.dir, "edited.yaml")
	require.NoError(t, os.WriteFile(edited, []byte("plugin:\n  name: edited\nvalidators:\n  - name: broken\n    types: Mapping\n    view: mapping\n    rule: nope\n"), 0o600))
	script := filepath.Join(env.dir, "editor.sh")
	body := "#!/bin/sh\ncp " + edited + " \"$1\"\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	t.Setenv("QVAL_EDITOR", script)

	code, out, errOut := env.run(t, "plugin", "edit", "edited")
	assert.Equal(t, errors.ExitUser, code)
	assert.Contains(t, out, "Location: "+path)
	assert.Contains(t, errOut, "nope")

	code, _, errOut = env.run(t, "plugin", "edit", "missing")
	assert.Equal(t, errors.ExitUser, code)
	assert.Contains(t, errOut, "plugin not installed")
}
