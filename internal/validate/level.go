package validate

import (
	"github.com/johnchase/qiime2/internal/errors"
)

// Level selects how thorough validation should be. It is passed to every
// validator unchanged.
type Level string

const (
	// LevelMin asks validators for a fast, shallow check.
	LevelMin Level = "min"
	// LevelMax asks validators for a complete check.
	LevelMax Level = "max"
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid validation level")

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelMin, LevelMax:
		return Level(s), nil
	default:
		return "", errors.Wrapf(ErrInvalidLevel, "%q (want min or max)", s)
	}
}

func (l Level) String() string {
	return string(l)
}
