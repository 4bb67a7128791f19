package util

import "strings"

// FirstToken returns the first whitespace-separated token of s. Input with
// at most one token comes back trimmed and otherwise untouched.
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 1 {
		return fields[0]
	}
	return strings.TrimSpace(s)
}

// TruncateWords reports whether s holds more than limit words and, if so,
// returns the first keep words joined by single spaces. Shorter input comes
// back trimmed with its original spacing.
func TruncateWords(s string, limit, keep int) (string, bool) {
	words := strings.Fields(s)
	if len(words) <= limit {
		return strings.TrimSpace(s), false
	}
	if keep > len(words) {
		keep = len(words)
	}
	return strings.Join(words[:keep], " "), true
}

func WordCount(s string) int {
	return len(strings.Fields(s))
}

func StringPtr(v string) *string {
	return &v
}
