package content

import (
	"regexp"
	"unicode/utf8"
)

// CharsPerMinute approximates reading speed for Japanese text.
const CharsPerMinute = 500

// tagPattern matches anything from '<' to the next '>'. It is only used to
// count visible characters and offers no output safety.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// VisibleLength returns the number of characters left in raw once tags are removed.
func VisibleLength(raw string) int {
	return utf8.RuneCountInString(tagPattern.ReplaceAllString(raw, ""))
}

// EstimateMinutes returns ceil(visible characters / CharsPerMinute).
// Content without visible text reports 0; any visible text reports at least 1.
func EstimateMinutes(raw string) int {
	n := VisibleLength(raw)
	if n == 0 {
		return 0
	}
	return (n + CharsPerMinute - 1) / CharsPerMinute
}
