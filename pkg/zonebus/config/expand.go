package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// varPattern matches ${NAME}.
var varPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// LookupFunc resolves a variable name, e.g. os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// UndefinedVariableError lists the ${NAME} references lookup could not
// resolve.
type UndefinedVariableError struct {
	Names []string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// Expand returns a copy of c with ${NAME} references in every string value
// replaced through lookup, descending into nested maps and lists. Any
// unresolved name fails the whole expansion.
//
// Example:
//
//	cfg, _ := config.FromFile("zonebus.yaml") // store: {path: "${HOME}/zones.db"}
//	cfg, err := cfg.Expand(os.LookupEnv)
func (c Config) Expand(lookup LookupFunc) (Config, error) {
	missing := make(map[string]struct{})
	out := expandValue(c.data, lookup, missing).(map[string]any)

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for n := range missing {
			names = append(names, n)
		}
		sort.Strings(names)
		return Config{}, &UndefinedVariableError{Names: names}
	}
	return New(out), nil
}

func expandValue(v any, lookup LookupFunc, missing map[string]struct{}) any {
	switch val := v.(type) {
	case string:
		return varPattern.ReplaceAllStringFunc(val, func(match string) string {
			name := match[2 : len(match)-1]
			if s, ok := lookup(name); ok {
				return s
			}
			missing[name] = struct{}{}
			return match
		})
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = expandValue(item, lookup, missing)
		}
		return m
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = expandValue(item, lookup, missing)
		}
		return items
	default:
		return v
	}
}
