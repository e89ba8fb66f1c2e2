package schedule

import (
	"regexp"
	"strings"
)

// Row is one tokenized non-blank line of a source file.
// Rows may be shorter than the expected column count.
type Row []string

// Field returns the i-th field or "" when the row is too short.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Has reports whether the row has at least n fields.
func (r Row) Has(n int) bool {
	return len(r) >= n
}

// whitespaceRun matches runs of any whitespace, including non-breaking and
// other Unicode space separators that spreadsheet exports leave in cells.
var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]+`)

// CollapseSpaces replaces whitespace runs with a single space.
func CollapseSpaces(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// NormalizeName prepares a student name for comparison: non-breaking spaces
// and whitespace runs become single spaces, the result is trimmed and lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(CollapseSpaces(name)))
}
