package utils

import "strings"

// ToPointer returns a pointer to the given value.
func ToPointer[T any](v T) *T {
	return &v
}

// ContainsString reports whether list contains s.
func ContainsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// CleanToValidUTF8 strips invalid UTF-8 sequences and NUL bytes from s.
func CleanToValidUTF8(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}

// TruncateString shortens s to at most n runes.
func TruncateString(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
