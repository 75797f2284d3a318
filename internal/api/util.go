package api

import (
	"fmt"
	"strings"
)

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// IsEnabledFlag reports whether an agent command flag enables the command:
// its string form must equal "true", ignoring case.
func IsEnabledFlag(v any) bool {
	return strings.ToLower(stringify(v)) == "true"
}
