package validate

import (
	"github.com/johnchase/qiime2/internal/errors"
)

// Priority places a validator in one of four ordering tiers.
type Priority int

const (
	// PriorityMiddle is the default tier.
	PriorityMiddle Priority = iota
	// PriorityFirst validators run before every other tier.
	PriorityFirst
	// PriorityMiddleB is a second middle tier. Its order relative to
	// PriorityMiddle is unspecified.
	PriorityMiddleB
	// PriorityLast validators run after every other tier.
	PriorityLast
)

// ErrInvalidPriority is returned by ParsePriority for unknown tier names.
var ErrInvalidPriority = errors.New("invalid validator priority")

func (p Priority) String() string {
	switch p {
	case PriorityFirst:
		return "first"
	case PriorityMiddle:
		return "middle"
	case PriorityMiddleB:
		return "middle_b"
	case PriorityLast:
		return "last"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the four tiers.
func (p Priority) Valid() bool {
	return p >= PriorityMiddle && p <= PriorityLast
}

// rank is the sort key. Both middle tiers share a rank.
func (p Priority) rank() int {
	switch p {
	case PriorityFirst:
		return 0
	case PriorityLast:
		return 2
	default:
		return 1
	}
}

// ParsePriority converts a tier name into a Priority. The empty string is
// PriorityMiddle.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "", "middle":
		return PriorityMiddle, nil
	case "first":
		return PriorityFirst, nil
	case "middle_b":
		return PriorityMiddleB, nil
	case "last":
		return PriorityLast, nil
	default:
		return 0, errors.Wrapf(ErrInvalidPriority, "%q (want first, middle, middle_b or last)", s)
	}
}
