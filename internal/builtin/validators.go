package builtin

import (
	"github.com/johnchase/qiime2/internal/validate"
)

func ascending(data []int, _ validate.Level) error {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return validate.NewValidationError("value %d at position %d is less than the preceding %d",
				data[i], i, data[i-1])
		}
	}
	return nil
}

func nonEmptyKeys(data map[string]string, _ validate.Level) error {
	if _, ok := data[""]; ok {
		return validate.NewValidationError("mapping contains an empty key")
	}
	return nil
}

func nonNegativeTentacles(c Cephalapod, _ validate.Level) error {
	if c.Tentacles < 0 {
		return validate.NewValidationError("tentacle count %d is negative", c.Tentacles)
	}
	return nil
}

// Squid have eight arms and two tentacles.
func squidTentacles(c Cephalapod, _ validate.Level) error {
	if c.Tentacles > 10 {
		return validate.NewValidationError("a squid has at most 10 appendages, got %d", c.Tentacles)
	}
	return nil
}

// evenTentacles only runs its check at max level.
func evenTentacles(c Cephalapod, level validate.Level) error {
	if level == validate.LevelMax && c.Tentacles%2 != 0 {
		return validate.NewValidationError("tentacle count %d is odd", c.Tentacles)
	}
	return nil
}

func octopusTentacles(c Cephalapod, level validate.Level) error {
	if c.Tentacles < 0 || c.Tentacles > 8 {
		return validate.NewValidationError("an octopus has at most 8 arms, got %d", c.Tentacles)
	}
	if level == validate.LevelMax && c.Tentacles != 8 {
		return validate.NewValidationError("an octopus has 8 arms, got %d", c.Tentacles)
	}
	return nil
}
