package schedule

// EnrichResult summarizes one enrichment pass.
type EnrichResult struct {
	// Processed counts student-name cells seen in data rows.
	Processed int
	// Matched counts cells whose name resolved to a student.
	Matched int
	// Updated counts practical entries that were located and rewritten.
	Updated int
	// Changed counts entries whose location or professor actually changed.
	// A second run over an already-enriched artifact reports zero.
	Changed int
}

// EnrichPractical re-reads the practical grid and patches existing practical
// entries in place: for each matched student and column, the first entry
// whose subject loosely matches the column subject gets the column venue as
// location and, when present, the column professor. No entry is created;
// entries that do not match are left untouched. records is patched in place
// and keeps its length, repeated roll numbers included.
func EnrichPractical(records []*StudentRecord, rows []Row, markers Markers, diags *Diagnostics) EnrichResult {
	var res EnrichResult
	scanner := NewGridScanner(markers)
	index := IndexNames(records)

	for i, row := range rows {
		kind, cells := scanner.Scan(row)
		if kind != LineData {
			continue
		}

		for _, cell := range cells {
			res.Processed++

			rec, ok := index.Lookup(cell.Name)
			if !ok {
				diags.Add(DiagUnmatchedName, SourcePractical, i+1, cell.Name,
					"no student in artifact for column %d", cell.Column)
				continue
			}
			res.Matched++

			if !cell.HasHeader {
				continue
			}

			entry := findPractical(rec, cell.Header.Subject)
			if entry == nil {
				diags.Add(DiagUnmatchedSubject, SourcePractical, i+1, cell.Header.Subject,
					"student %s has no practical exam matching %q", rec.RollNo, cell.Header.Subject)
				continue
			}

			res.Updated++
			if patchPractical(entry, cell.Venue, cell.Header.Professor) {
				res.Changed++
			}
		}
	}

	return res
}

func findPractical(rec *StudentRecord, subject string) *PracticalEntry {
	for i := range rec.Practical {
		if LooselyMatches(rec.Practical[i].Subject, subject) {
			return &rec.Practical[i]
		}
	}
	return nil
}

// patchPractical applies location and professor and reports whether
// anything changed.
func patchPractical(e *PracticalEntry, location, professor string) bool {
	changed := false
	if e.Location != location {
		e.Location = location
		changed = true
	}
	if professor != "" && e.Professor != professor {
		e.Professor = professor
		changed = true
	}
	return changed
}
