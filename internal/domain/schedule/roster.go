package schedule

// Roster columns: [rollNumber, countIgnored, name, ...].
const (
	rosterHeaderRows = 1
	rosterRollField  = 0
	rosterNameField  = 2
	rosterMinFields  = 3
)

// LoadRoster seeds the registry from the roster rows. The first row is the
// header. Rows with fewer than three fields are skipped; a repeated roll
// number replaces the earlier record.
func LoadRoster(rows []Row, diags *Diagnostics) *Registry {
	reg := NewRegistry()

	for i := rosterHeaderRows; i < len(rows); i++ {
		row := rows[i]
		line := i + 1

		if !row.Has(rosterMinFields) {
			diags.Add(DiagMalformedRow, SourceRoster, line, row.Field(0),
				"expected at least %d fields, got %d", rosterMinFields, len(row))
			continue
		}

		rec := NewStudentRecord(row.Field(rosterRollField), row.Field(rosterNameField))
		if !rec.RollNo.IsNumeric() {
			diags.Add(DiagNonNumericRoll, SourceRoster, line, rec.RollNo.String(),
				"roll number is not numeric; student %q cannot match theory ranges", rec.Name)
		}
		if reg.Put(rec) {
			diags.Add(DiagDuplicateRoll, SourceRoster, line, rec.RollNo.String(),
				"duplicate roll number, keeping %q", rec.Name)
		}
	}

	return reg
}
