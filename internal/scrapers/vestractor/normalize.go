package vestractor

import (
	"strings"
	"unicode"
)

// CompressedKey lowercases the text and removes every space, "Fuvest 2021" becomes "fuvest2021".
func CompressedKey(text string) string {
	return strings.ReplaceAll(strings.ToLower(text), " ", "")
}

// DisplayLabel lowercases the text, then uppercases the first rune, the rune after each space and
// the two runes after each hyphen.
//
// The two-runes-after-a-hyphen rule is kept as the platform labels have always been rendered with
// it ("unicamp-fase" -> "Unicamp-FAse"), it is pinned by tests until someone decides otherwise.
func DisplayLabel(text string) string {
	runes := []rune(strings.ToLower(text))

	upper := func(i int) {
		if i < len(runes) {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}

	for i := 0; i < len(runes); i++ {
		if i == 0 {
			upper(i)
		}
		switch runes[i] {
		case ' ':
			upper(i + 1)
		case '-':
			upper(i + 1)
			upper(i + 2)
		}
	}

	return string(runes)
}
