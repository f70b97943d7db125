package manifest

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/validate"
)

// minLevelItems is how many values order and pattern rules inspect at
// LevelMin.
const minLevelItems = 100

type ruleFactory func(args map[string]any, view reflect.Type) (validate.Func, error)

var rules = map[string]ruleFactory{
	"non_empty":     nonEmptyRule,
	"ascending":     ascendingRule,
	"max_count":     maxCountRule,
	"min_value":     minValueRule,
	"max_value":     maxValueRule,
	"required_keys": requiredKeysRule,
	"key_pattern":   keyPatternRule,
}

// Rules returns the rule names a manifest may use.
func Rules() []string {
	out := make([]string, 0, len(rules))
	for name := range rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// compileRule builds the validator function for a rule over view.
func compileRule(name string, args map[string]any, view reflect.Type) (validate.Func, error) {
	factory, ok := rules[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRule, "%q (want one of %s)", name, strings.Join(Rules(), ", "))
	}
	fn, err := factory(args, view)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %s", name)
	}
	return fn, nil
}

func unsupported(view reflect.Type) error {
	return errors.Newf("not applicable to view %s", view)
}

var (
	intsType    = reflect.TypeFor[[]int]()
	mappingType = reflect.TypeFor[map[string]string]()
	textType    = reflect.TypeFor[string]()
)

// size is the number of elements of a view: values, keys or lines.
func size(data any) int {
	switch d := data.(type) {
	case []int:
		return len(d)
	case map[string]string:
		return len(d)
	case string:
		if strings.TrimSpace(d) == "" {
			return 0
		}
		return len(strings.Split(strings.TrimRight(d, "\n"), "\n"))
	}
	return 0
}

func nonEmptyRule(_ map[string]any, _ reflect.Type) (validate.Func, error) {
	return func(data any, _ validate.Level) error {
		if size(data) == 0 {
			return validate.NewValidationError("data is empty")
		}
		return nil
	}, nil
}

func maxCountRule(args map[string]any, _ reflect.Type) (validate.Func, error) {
	limit, err := intArg(args, "max")
	if err != nil {
		return nil, err
	}
	return func(data any, _ validate.Level) error {
		if n := size(data); n > limit {
			return validate.NewValidationError("%d entries exceed the maximum of %d", n, limit)
		}
		return nil
	}, nil
}

func ascendingRule(_ map[string]any, view reflect.Type) (validate.Func, error) {
	if view != intsType {
		return nil, unsupported(view)
	}
	return func(data any, level validate.Level) error {
		values, _ := data.([]int)
		n := len(values)
		if level == validate.LevelMin {
			n = min(n, minLevelItems)
		}
		for i := 1; i < n; i++ {
			if values[i] < values[i-1] {
				return validate.NewValidationError("value %d at position %d is less than the preceding %d",
					values[i], i, values[i-1])
			}
		}
		return nil
	}, nil
}

func boundRule(key string, fails func(v, bound int) bool, verb string) ruleFactory {
	return func(args map[string]any, view reflect.Type) (validate.Func, error) {
		if view != intsType {
			return nil, unsupported(view)
		}
		bound, err := intArg(args, key)
		if err != nil {
			return nil, err
		}
		return func(data any, _ validate.Level) error {
			values, _ := data.([]int)
			for i, v := range values {
				if fails(v, bound) {
					return validate.NewValidationError("value %d at position %d is %s %d", v, i, verb, bound)
				}
			}
			return nil
		}, nil
	}
}

var (
	minValueRule = boundRule("min", func(v, b int) bool { return v < b }, "below the minimum")
	maxValueRule = boundRule("max", func(v, b int) bool { return v > b }, "above the maximum")
)

func requiredKeysRule(args map[string]any, view reflect.Type) (validate.Func, error) {
	if view != mappingType {
		return nil, unsupported(view)
	}
	keys, err := stringsArg(args, "keys")
	if err != nil {
		return nil, err
	}
	return func(data any, _ validate.Level) error {
		m, _ := data.(map[string]string)
		var missing []string
		for _, k := range keys {
			if _, ok := m[k]; !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			return validate.NewValidationError("missing required keys: %s", strings.Join(missing, ", "))
		}
		return nil
	}, nil
}

func keyPatternRule(args map[string]any, view reflect.Type) (validate.Func, error) {
	if view != mappingType && view != textType {
		return nil, unsupported(view)
	}
	pattern, err := stringArg(args, "pattern")
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling pattern %q", pattern)
	}

	return func(data any, level validate.Level) error {
		var keys []string
		switch d := data.(type) {
		case map[string]string:
			for k := range d {
				keys = append(keys, k)
			}
			sort.Strings(keys)
		case string:
			for _, line := range strings.Split(d, "\n") {
				if strings.TrimSpace(line) != "" {
					keys = append(keys, line)
				}
			}
		}
		if level == validate.LevelMin && len(keys) > minLevelItems {
			keys = keys[:minLevelItems]
		}
		for _, k := range keys {
			if !re.MatchString(k) {
				return validate.NewValidationError("%q does not match pattern %s", k, pattern)
			}
		}
		return nil
	}, nil
}

func intArg(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, errors.Newf("missing argument %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, errors.Newf("argument %q must be an integer, got %v", key, v)
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", errors.Newf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Newf("argument %q must be a string, got %v", key, v)
	}
	return s, nil
}

func stringsArg(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok {
		return nil, errors.Newf("missing argument %q", key)
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("argument %q must be a list of strings, got element %v", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.Newf("argument %q must be a list of strings, got %T", key, v)
}
