package builtin

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/validate"
	"github.com/johnchase/qiime2/pkg/fileutil"
)

// minLevelLines is how many records a min-level well-formedness check
// inspects.
const minLevelLines = 10

// MaxArtifactSize bounds how much of a stored artifact is read.
const MaxArtifactSize = 64 << 20

// maxLineSize bounds a single record. Longer lines are malformed data.
const maxLineSize = 1 << 20

// IntSequenceFormat stores one integer per line.
type IntSequenceFormat struct {
	Path    string
	Content []byte
}

// MappingFormat stores one tab separated key/value pair per line.
type MappingFormat struct {
	Path    string
	Content []byte
}

// CephalapodFormat stores a single "tentacles=<n>" line.
type CephalapodFormat struct {
	Path    string
	Content []byte
}

// Cephalapod is the view of a CephalapodFormat.
type Cephalapod struct {
	Tentacles int
}

func readFile(path string) ([]byte, error) {
	b, err := fileutil.ReadFileLimit(path, MaxArtifactSize)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return b, nil
}

// OpenIntSequence reads an IntSequenceFormat from path.
func OpenIntSequence(path string) (*IntSequenceFormat, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &IntSequenceFormat{Path: path, Content: b}, nil
}

// OpenMapping reads a MappingFormat from path.
func OpenMapping(path string) (*MappingFormat, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &MappingFormat{Path: path, Content: b}, nil
}

// OpenCephalapod reads a CephalapodFormat from path.
func OpenCephalapod(path string) (*CephalapodFormat, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &CephalapodFormat{Path: path, Content: b}, nil
}

// lines yields the non-blank lines of content with their 1-based line
// numbers. limit <= 0 means no limit.
func lines(content []byte, limit int, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	seen := 0
	n := 1
	for ; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
		seen++
		if limit > 0 && seen >= limit {
			break
		}
	}
	if errors.Is(sc.Err(), bufio.ErrTooLong) {
		return validate.NewValidationError("line %d exceeds %d bytes", n, maxLineSize)
	}
	return errors.Wrap(sc.Err(), "scanning content")
}

func lineLimit(level validate.Level) int {
	if level == validate.LevelMin {
		return minLevelLines
	}
	return 0
}

func checkIntSequence(f *IntSequenceFormat, level validate.Level) error {
	return lines(f.Content, lineLimit(level), func(n int, line string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(line)); err != nil {
			return validate.NewValidationError("line %d: %q is not an integer", n, line)
		}
		return nil
	})
}

func checkMapping(f *MappingFormat, level validate.Level) error {
	return lines(f.Content, lineLimit(level), func(n int, line string) error {
		if strings.Count(line, "\t") != 1 {
			return validate.NewValidationError("line %d: expected exactly one tab separating key and value", n)
		}
		return nil
	})
}

func checkCephalapod(f *CephalapodFormat, _ validate.Level) error {
	var found bool
	err := lines(f.Content, 0, func(n int, line string) error {
		if found {
			return validate.NewValidationError("line %d: expected a single tentacles line", n)
		}
		found = true
		if _, err := parseTentacles(line); err != nil {
			return validate.NewValidationError("line %d: %v", n, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return validate.NewValidationError("missing tentacles line")
	}
	return nil
}

func parseTentacles(line string) (int, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok || strings.TrimSpace(key) != "tentacles" {
		return 0, errors.Newf("expected tentacles=<n>, got %q", line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.Newf("tentacle count %q is not an integer", value)
	}
	return n, nil
}

// IntSequenceToInts parses every line as an integer.
func IntSequenceToInts(f *IntSequenceFormat) ([]int, error) {
	var out []int
	err := lines(f.Content, 0, func(n int, line string) error {
		v, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MappingToMap parses key/value lines. Later duplicates win.
func MappingToMap(f *MappingFormat) (map[string]string, error) {
	out := make(map[string]string)
	err := lines(f.Content, 0, func(n int, line string) error {
		k, v, ok := strings.Cut(line, "\t")
		if !ok {
			return errors.Newf("line %d: missing tab", n)
		}
		out[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CephalapodToView parses the tentacles line.
func CephalapodToView(f *CephalapodFormat) (Cephalapod, error) {
	var c Cephalapod
	err := lines(f.Content, 1, func(_ int, line string) error {
		n, err := parseTentacles(line)
		c.Tentacles = n
		return err
	})
	return c, err
}

// The text view of every builtin format is its raw content.
func intSequenceText(f *IntSequenceFormat) (string, error) { return string(f.Content), nil }

func mappingText(f *MappingFormat) (string, error) { return string(f.Content), nil }

func cephalapodText(f *CephalapodFormat) (string, error) { return string(f.Content), nil }
