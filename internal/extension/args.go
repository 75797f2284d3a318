package extension

import (
	"fmt"
	"strconv"
	"strings"
)

// StringArg returns args[name] as a string. Missing or nil values yield def.
func StringArg(args map[string]any, name, def string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// RequiredStringArg is StringArg without a default: missing, nil and empty
// values are an error.
func RequiredStringArg(args map[string]any, name string) (string, error) {
	s := StringArg(args, name, "")
	if s == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return s, nil
}

// FloatArg parses args[name] as a number. Missing or nil values yield def
// when hasDef is set and an error otherwise.
func FloatArg(args map[string]any, name string, def float64, hasDef bool) (float64, error) {
	v, ok := args[name]
	if !ok || v == nil || v == "" {
		if hasDef {
			return def, nil
		}
		return 0, fmt.Errorf("%s is required", name)
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", name, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", name, v)
	}
}

// BoolSetting interprets a settings value the way agent flags are read:
// only "true" in any case is true. Missing or nil values yield def.
func BoolSetting(settings map[string]any, name string, def bool) bool {
	v, ok := settings[name]
	if !ok || v == nil {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return strings.EqualFold(strings.TrimSpace(fmt.Sprint(v)), "true")
}
