// Package strings holds text helpers shared by the server and the CLI.
package strings

import (
	"regexp"
	"strings"
)

// DefaultDescriptionMaxLen is the description width used in table output.
const DefaultDescriptionMaxLen = 60

// minTruncateLen leaves room for one character plus "...".
const minTruncateLen = 4

// TruncateDescription collapses whitespace to single spaces and cuts s to
// at most maxLen runes, ending in "..." when cut.
func TruncateDescription(s string, maxLen int) string {
	if maxLen < minTruncateLen {
		maxLen = minTruncateLen
	}
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

var identifierReplacer = regexp.MustCompile(`[^a-z0-9_-]+`)

// Identifier lowercases name and replaces every run of characters outside
// [a-z0-9_-] with "_", trimming leading and trailing underscores
// ("Write to File" becomes "write_to_file").
func Identifier(name string) string {
	id := identifierReplacer.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(id, "_")
}
