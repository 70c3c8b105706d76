package parse

import (
	"regexp"
	"strings"
)

var (
	reLineBreak  = regexp.MustCompile(`\r\n?|\n`)
	reMultiSpace = regexp.MustCompile(`\s{2,}`)
)

// Normalize converts raw OCR output into a cleaned, ordered line sequence:
// any line-break style is honored, stray asterisks (common OCR price noise)
// are stripped, interior whitespace runs collapse to a single space, and
// lines that end up empty are dropped. Total function; order is preserved.
func Normalize(raw string) []string {
	if raw == "" {
		return nil
	}
	rawLines := reLineBreak.Split(raw, -1)
	lines := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		l = strings.ReplaceAll(l, "*", "")
		l = reMultiSpace.ReplaceAllString(l, " ")
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
