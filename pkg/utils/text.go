// Package utils provides shared utilities for text and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Snippet returns a window of text around the first occurrence of any of the
// query terms, with ellipses marking trimmed edges. When no term occurs, the
// head of the text is returned (truncated to maxLen).
func Snippet(text string, terms []string, maxLen int) string {
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}
	lower := strings.ToLower(text)
	first := -1
	for _, term := range terms {
		if term == "" {
			continue
		}
		pos := strings.Index(lower, strings.ToLower(term))
		if pos != -1 && (first == -1 || pos < first) {
			first = pos
		}
	}
	if first == -1 {
		return text[:maxLen] + "..."
	}
	start := first - maxLen/2
	if start < 0 {
		start = 0
	}
	end := first + maxLen/2
	if end > len(text) {
		end = len(text)
	}
	out := text[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out = out + "..."
	}
	return out
}
