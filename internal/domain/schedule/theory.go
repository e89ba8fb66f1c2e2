package schedule

import (
	"fmt"
	"strings"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
)

// Theory columns: [date?, subject, mode, timeSlot, rollSpec, studentCount, location].
const (
	theoryHeaderRows    = 2
	theoryMinFields     = 5
	theoryDateField     = 0
	theorySubjectField  = 1
	theoryTimeField     = 3
	theoryRollField     = 4
	theoryLocationField = 6

	rollPartSeparator = ","
	rangeSeparator    = " to "
)

// TheoryResult summarizes one theory pass.
type TheoryResult struct {
	Rows    int // data rows that carried a roll specification
	Skipped int // rows with too few fields
	Entries int // theory entries appended
}

// SplitRollSpec splits a roll specification into trimmed parts. Empty parts
// (for example from a trailing comma) are dropped.
func SplitRollSpec(spec string) []string {
	raw := strings.Split(spec, rollPartSeparator)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// ParseRollPart parses "<roll>" or "<start> to <end>". Extra " to " segments
// after the second one are ignored.
func ParseRollPart(part string) (RollPart, error) {
	if strings.Contains(part, rangeSeparator) {
		bounds := strings.Split(part, rangeSeparator)
		start, err := ParseRollNumber(bounds[0])
		if err != nil {
			return RollPart{}, shared.ErrInvalidRollRange.Wrap(fmt.Errorf("start: %w", err))
		}
		end, err := ParseRollNumber(bounds[1])
		if err != nil {
			return RollPart{}, shared.ErrInvalidRollRange.Wrap(fmt.Errorf("end: %w", err))
		}
		return RollPart{Raw: part, Start: start, End: end}, nil
	}

	single, err := ParseRollNumber(part)
	if err != nil {
		return RollPart{}, err
	}
	return RollPart{Raw: part, Start: single, End: single}, nil
}

// AssignTheory attaches theory entries to every student whose roll number
// falls into a row's roll specification. Rows 0 and 1 are headers. A blank
// date cell inherits the last non-blank date above it.
//
// Range membership scans the whole registry per part; the expected scale is
// hundreds of students and tens of rows.
func AssignTheory(reg *Registry, rows []Row, diags *Diagnostics) TheoryResult {
	var (
		res         TheoryResult
		currentDate string
	)

	for i := theoryHeaderRows; i < len(rows); i++ {
		row := rows[i]
		line := i + 1

		if !row.Has(theoryMinFields) {
			res.Skipped++
			diags.Add(DiagMalformedRow, SourceTheory, line, row.Field(0),
				"expected at least %d fields, got %d", theoryMinFields, len(row))
			continue
		}

		if d := row.Field(theoryDateField); d != "" {
			currentDate = d
		}

		spec := row.Field(theoryRollField)
		if spec == "" {
			continue
		}
		res.Rows++

		entry := TheoryEntry{
			Date:     currentDate,
			Subject:  row.Field(theorySubjectField),
			Time:     row.Field(theoryTimeField),
			Location: row.Field(theoryLocationField),
		}

		for _, raw := range SplitRollSpec(spec) {
			part, err := ParseRollPart(raw)
			if err != nil {
				diags.Add(DiagInvalidRollPart, SourceTheory, line, raw,
					"skipping roll number part: %v", err)
				continue
			}

			matched := 0
			reg.Each(func(rec *StudentRecord) {
				if part.Contains(rec.RollNo) {
					rec.AddTheory(entry)
					matched++
				}
			})
			res.Entries += matched

			if matched == 0 {
				diags.Add(DiagUnmatchedRollPart, SourceTheory, line, raw,
					"no registered student for %s", entry.Subject)
			}
		}
	}

	return res
}
