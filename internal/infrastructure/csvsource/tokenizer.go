// Package csvsource reads the spreadsheet exports (roster, theory schedule,
// practical grid) and turns their lines into schedule rows.
//
// The tokenizer is not a general CSV parser: a double quote
// toggles quoted mode instead of being matched in pairs, so a line with an
// odd number of quotes stays quoted until its end. Embedded newlines,
// escaped quotes ("") and delimiters other than comma are not supported.
package csvsource

import (
	"strings"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
)

const (
	fieldSeparator = ','
	quote          = '"'
)

// Tokenize splits one line into trimmed, quote-stripped fields.
// It never fails; malformed lines yield a best-effort field list.
func Tokenize(line string) schedule.Row {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, ch := range line {
		switch {
		case ch == quote:
			inQuotes = !inQuotes
		case ch == fieldSeparator && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, cleanField(current.String()))

	return fields
}

// cleanField trims the field and strips one surrounding quote on each side.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// TokenizeAll tokenizes every line.
func TokenizeAll(lines []string) []schedule.Row {
	rows := make([]schedule.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, Tokenize(l))
	}
	return rows
}
