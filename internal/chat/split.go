package chat

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into chunks of at most maxLen bytes, preferring
// to cut after a newline or a space. Chunks never split a UTF-8 sequence.
func SplitMessage(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			parts = append(parts, text)
			break
		}
		cutAt := runeBoundary(text, maxLen)
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > 0 {
			cutAt = idx + 1
		} else if idx := strings.LastIndex(text[:maxLen], " "); idx > 0 {
			cutAt = idx + 1
		}
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	return parts
}

// runeBoundary backs n off to the start of the rune it falls inside. A
// limit smaller than the first rune still cuts after that rune.
func runeBoundary(text string, n int) int {
	i := n
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	if i == 0 {
		_, size := utf8.DecodeRuneInString(text)
		return size
	}
	return i
}
