package format

import "strings"

// EscapeSQL quotes v as a SQL string literal. Single quotes inside v are
// replaced with double quotes, not doubled. Nothing else is escaped.
func EscapeSQL(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `"`) + "'"
}

// EscapeCSV wraps v in double quotes. Embedded quotes are left as they are.
func EscapeCSV(v string) string {
	return `"` + v + `"`
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
