package builtin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/logging"
	"github.com/johnchase/qiime2/internal/plugin"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/validate"
)

func newManager(t *testing.T) *plugin.Manager {
	t.Helper()
	m := plugin.NewManager(plugin.WithLogger(logging.ForTest(t)))
	require.NoError(t, m.AddPlugin(MustNew()))
	return m
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, Name, p.Name)
	assert.Len(t, p.ArtifactClasses(), 8)
	assert.Equal(t, 6, p.TransformerCount())
}

func TestManager_Types(t *testing.T) {
	m := newManager(t)
	var got []string
	for _, typ := range m.Types() {
		got = append(got, typ.String())
	}
	assert.Equal(t, []string{
		"AscIntSequence", "IntSequence1", "IntSequence2", "Kennel[Cat]", "Kennel[Dog]",
		"Mapping", "Octopus", "Squid",
	}, got)
}

func TestSquidValidatorOrder(t *testing.T) {
	m := newManager(t)
	obj, ok := m.Lookup(Squid)
	require.True(t, ok)

	recs := obj.Validators()
	got := make([]string, len(recs))
	for i, r := range recs {
		got[i] = r.Name()
	}

	orders := [][]string{
		{"validator_sort_first", "validator_sort_middle", "validator_sort_middle_b", "validator_sort_last"},
		{"validator_sort_first", "validator_sort_middle_b", "validator_sort_middle", "validator_sort_last"},
	}
	assert.Contains(t, orders, got)
}

func TestValidateFile(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		typ     semtype.Type
		content string
		level   validate.Level
		wantMsg string
	}{
		{name: "ints", typ: IntSequence1, content: "3\n1\n2\n", level: validate.LevelMax},
		{name: "ints with blank lines", typ: IntSequence2, content: "1\n\n2\n", level: validate.LevelMax},
		{name: "not an integer", typ: IntSequence1, content: "1\nx\n", level: validate.LevelMax, wantMsg: `line 2: "x" is not an integer`},
		{name: "ascending", typ: AscIntSequence, content: "1\n2\n2\n5\n", level: validate.LevelMax},
		{name: "not ascending", typ: AscIntSequence, content: "1\n3\n2\n", level: validate.LevelMax, wantMsg: "value 2 at position 2"},
		{name: "mapping", typ: Mapping, content: "a\t1\nb\t2\n", level: validate.LevelMax},
		{name: "mapping without tab", typ: KennelDog, content: "rex\n", level: validate.LevelMax, wantMsg: "exactly one tab"},
		{name: "mapping empty key", typ: KennelCat, content: "\tnameless\n", level: validate.LevelMax, wantMsg: "empty key"},
		{name: "squid", typ: Squid, content: "tentacles=10\n", level: validate.LevelMax},
		{name: "squid malformed", typ: Squid, content: "arms=10\n", level: validate.LevelMax, wantMsg: "expected tentacles=<n>"},
		{name: "squid missing line", typ: Squid, content: "\n", level: validate.LevelMax, wantMsg: "missing tentacles line"},
		{name: "squid negative", typ: Squid, content: "tentacles=-2\n", level: validate.LevelMax, wantMsg: "is negative"},
		{name: "squid too many", typ: Squid, content: "tentacles=12\n", level: validate.LevelMax, wantMsg: "at most 10"},
		{name: "squid odd at max", typ: Squid, content: "tentacles=9\n", level: validate.LevelMax, wantMsg: "is odd"},
		{name: "squid odd at min", typ: Squid, content: "tentacles=9\n", level: validate.LevelMin},
		{name: "octopus", typ: Octopus, content: "tentacles=8\n", level: validate.LevelMax},
		{name: "octopus short at min", typ: Octopus, content: "tentacles=7\n", level: validate.LevelMin},
		{name: "octopus short at max", typ: Octopus, content: "tentacles=7\n", level: validate.LevelMax, wantMsg: "has 8 arms"},
		{name: "two lines", typ: Octopus, content: "tentacles=8\ntentacles=8\n", level: validate.LevelMax, wantMsg: "single tentacles line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateFile(ctx, tt.typ, writeFile(t, "data.txt", tt.content), tt.level)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, validate.ErrValidation), "expected a validation error, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateFile_MinLevelChecksPrefix(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	content := ""
	for range minLevelLines {
		content += "1\n"
	}
	content += "oops\n"
	path := writeFile(t, "ints.txt", content)

	// IntSequence2 has no view validators, so only the format check runs.
	assert.NoError(t, m.ValidateFile(ctx, IntSequence2, path, validate.LevelMin))
	err := m.ValidateFile(ctx, IntSequence2, path, validate.LevelMax)
	assert.True(t, errors.Is(err, validate.ErrValidation))
}

func TestValidateFile_OverlongLine(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()
	path := writeFile(t, "ints.txt", "1\n"+strings.Repeat("9", maxLineSize+1)+"\n")

	for _, level := range []validate.Level{validate.LevelMin, validate.LevelMax} {
		err := m.ValidateFile(ctx, IntSequence1, path, level)
		require.Error(t, err)
		assert.True(t, errors.Is(err, validate.ErrValidation), "expected a validation error, got %v", err)
		assert.False(t, errors.Is(err, validate.ErrImplementation), "got %v", err)
		assert.Contains(t, err.Error(), "line 2 exceeds")
	}
}

func TestKennelHasNoIntView(t *testing.T) {
	m := newManager(t)
	p := plugin.New(plugin.Metadata{Name: "dogs"})
	require.NoError(t, plugin.RegisterFunc(p, KennelDog, "blank_validator", validate.PriorityMiddle,
		func([]int, validate.Level) error { return nil }))

	err := m.AddPlugin(p)
	require.Error(t, err)
	assert.Regexp(t, `Kennel\[Dog\].*blank_validator.*transform.*builtin:\[\]int`, err.Error())
}

func TestTransformers(t *testing.T) {
	ints, err := IntSequenceToInts(&IntSequenceFormat{Content: []byte("1\n 2\n\n-3\n")})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, -3}, ints)

	_, err = IntSequenceToInts(&IntSequenceFormat{Content: []byte("1\nx\n")})
	assert.Error(t, err)

	mapping, err := MappingToMap(&MappingFormat{Content: []byte("a\t1\nb\t2\na\t3\n")})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, mapping)

	c, err := CephalapodToView(&CephalapodFormat{Content: []byte("tentacles = 8\n")})
	require.NoError(t, err)
	assert.Equal(t, Cephalapod{Tentacles: 8}, c)
}

func TestOpen_Missing(t *testing.T) {
	_, err := OpenIntSequence(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
