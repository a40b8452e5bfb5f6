package discordbot

import (
	"strings"
	"unicode/utf8"
)

// SplitInParts breaks text on spaces into parts of at most max runes each. Words longer than max
// are cut at rune boundaries, empty parts are never returned.
func SplitInParts(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	var parts []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if part := strings.TrimSpace(current.String()); part != "" {
			parts = append(parts, part)
		}
		current.Reset()
		currentLen = 0
	}

	for _, word := range strings.Split(text, " ") {
		wordLen := utf8.RuneCountInString(word)
		if wordLen == 0 {
			continue
		}

		for wordLen > max {
			flush()
			runes := []rune(word)
			parts = append(parts, string(runes[:max]))
			word = string(runes[max:])
			wordLen -= max
		}

		needed := wordLen
		if currentLen > 0 {
			needed++
		}
		if currentLen+needed > max {
			flush()
			needed = wordLen
		}
		if currentLen > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
		currentLen += needed
	}
	flush()

	return parts
}
