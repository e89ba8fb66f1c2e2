package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func practicalRegistry() *Registry {
	reg := NewRegistry()
	reg.Put(NewStudentRecord("150096725001", "Asha Verma"))
	reg.Put(NewStudentRecord("150096725002", "Rahul Nair"))
	reg.Put(NewStudentRecord("150096725003", "Meera Iyer"))
	return reg
}

func practicalRows() []Row {
	return []Row{
		{"Practical Examination Schedule"},
		{"Day 1 : 17th Dec : Wed"},
		{"Venue", "", "Bunker 2", "Bunker 3"},
		{"Slot No.", "Time", "Panel 1 Prof. Vishakha - Python", "Batch 2 - Java Lab"},
		{"1", "10:00 AM - 11:00 AM", "Asha\u00a0 Verma", "NA", "Meera Iyer"},
		{"2", "11:00 AM - 12:00 PM", "Rahul Nair", "Unknown Person"},
		{"Lunch", "Break"},
		{"Day 2 : 18th Dec : Thu"},
		{"1", "09:00 AM - 10:00 AM", "Rahul Nair"},
	}
}

func TestGridScanner_Classification(t *testing.T) {
	s := NewGridScanner(DefaultMarkers())

	var kinds []LineKind
	for _, row := range practicalRows() {
		kind, _ := s.Scan(row)
		kinds = append(kinds, kind)
	}

	assert.Equal(t, []LineKind{
		LineSkipped,
		LineDayHeader,
		LineVenue,
		LineColumnHeader,
		LineData,
		LineData,
		LineSkipped,
		LineDayHeader,
		LineData,
	}, kinds)
	assert.Equal(t, "Day 2 : 18th Dec : Thu", s.Date())
}

func TestGridScanner_DataBeforeFirstDayIsSkipped(t *testing.T) {
	s := NewGridScanner(DefaultMarkers())

	kind, cells := s.Scan(Row{"1", "10:00 AM - 11:00 AM", "Asha Verma"})
	assert.Equal(t, LineSkipped, kind)
	assert.Empty(t, cells)
}

func TestAssignPractical(t *testing.T) {
	reg := practicalRegistry()
	var diags Diagnostics

	res := AssignPractical(reg, practicalRows(), DefaultMarkers(), &diags)

	asha, _ := reg.Get("150096725001")
	require.Len(t, asha.Practical, 1)
	assert.Equal(t, PracticalEntry{
		Date:      "Day 1 : 17th Dec : Wed",
		Subject:   "Python",
		Panel:     "Panel 1",
		Professor: "Prof. Vishakha",
		Time:      "10:00 AM - 11:00 AM",
		Location:  "Bunker 2",
	}, asha.Practical[0])

	// Column without header or venue.
	meera, _ := reg.Get("150096725003")
	require.Len(t, meera.Practical, 1)
	assert.Equal(t, UnknownSubject, meera.Practical[0].Subject)
	assert.Equal(t, UnknownPanel, meera.Practical[0].Panel)
	assert.Equal(t, UnknownVenue, meera.Practical[0].Location)

	rahul, _ := reg.Get("150096725002")
	require.Len(t, rahul.Practical, 2)
	assert.Equal(t, "Python", rahul.Practical[0].Subject)
	assert.Equal(t, "11:00 AM - 12:00 PM", rahul.Practical[0].Time)

	// Day headers reset venues and column headers.
	assert.Equal(t, "Day 2 : 18th Dec : Thu", rahul.Practical[1].Date)
	assert.Equal(t, UnknownSubject, rahul.Practical[1].Subject)
	assert.Equal(t, UnknownVenue, rahul.Practical[1].Location)

	assert.Equal(t, 2, res.DayBlocks)
	assert.Equal(t, 3, res.DataRows)
	assert.Equal(t, 5, res.Cells)
	assert.Equal(t, 4, res.Entries)
	assert.Equal(t, []string{"Unknown Person"}, diags.Values(DiagUnmatchedName))
}

func TestAssignPractical_CustomVenueKeyword(t *testing.T) {
	reg := practicalRegistry()
	m := DefaultMarkers()
	m.VenueKeyword = "Lab"

	rows := []Row{
		{"Day 1 : 17th Dec : Wed"},
		{"Venue", "", "Lab 4"},
		{"1", "10:00 AM - 11:00 AM", "Asha Verma"},
	}
	AssignPractical(reg, rows, m, nil)

	asha, _ := reg.Get("150096725001")
	require.Len(t, asha.Practical, 1)
	assert.Equal(t, "Lab 4", asha.Practical[0].Location)
}
