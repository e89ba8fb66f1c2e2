package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func theoryRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	for i := 1; i <= 7; i++ {
		reg.Put(NewStudentRecord(fmt.Sprintf("15009672500%d", i), fmt.Sprintf("Student %d", i)))
	}
	return reg
}

func theoryRows() []Row {
	return []Row{
		{"Theory Examination Schedule"},
		{"Date", "Subject", "Mode", "Time", "Roll Number", "Count", "Location"},
		{"23rd December 2025", "Mathematics", "Offline", "10:00 AM \u2013 12:00 PM", "150096725002 to 150096725005, 150096725007", "5", "Hall A"},
		{"", "Physics", "Offline", "2:00 PM - 4:00 PM", "150096725001", "1", "Hall B"},
		{"", "Chemistry", "Offline", "2:00 PM - 4:00 PM", "", "0", "Hall C"},
		{"x", "y"},
		{"24th December 2025", "Biology", "Offline", "10:00 AM - 12:00 PM", "15009A, 999", "1"},
	}
}

func TestAssignTheory_Ranges(t *testing.T) {
	reg := theoryRegistry(t)
	var diags Diagnostics

	res := AssignTheory(reg, theoryRows(), &diags)

	for _, roll := range []string{"150096725002", "150096725003", "150096725004", "150096725005", "150096725007"} {
		rec, ok := reg.Get(roll)
		require.True(t, ok)
		require.Len(t, rec.Theory, 1, roll)
		assert.Equal(t, TheoryEntry{
			Date:     "23rd December 2025",
			Subject:  "Mathematics",
			Time:     "10:00 AM \u2013 12:00 PM",
			Location: "Hall A",
		}, rec.Theory[0])
	}

	rec, _ := reg.Get("150096725006")
	assert.Empty(t, rec.Theory)

	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 6, res.Entries)
}

func TestAssignTheory_DateCarriesForward(t *testing.T) {
	reg := theoryRegistry(t)

	AssignTheory(reg, theoryRows(), nil)

	rec, _ := reg.Get("150096725001")
	require.Len(t, rec.Theory, 1)
	assert.Equal(t, "23rd December 2025", rec.Theory[0].Date)
	assert.Equal(t, "Physics", rec.Theory[0].Subject)
}

func TestAssignTheory_Diagnostics(t *testing.T) {
	reg := theoryRegistry(t)
	var diags Diagnostics

	AssignTheory(reg, theoryRows(), &diags)

	assert.Equal(t, []string{"15009A"}, diags.Values(DiagInvalidRollPart))
	assert.Equal(t, []string{"999"}, diags.Values(DiagUnmatchedRollPart))
	assert.Equal(t, 1, diags.Count(DiagMalformedRow))
}

func TestAssignTheory_MissingLocation(t *testing.T) {
	reg := theoryRegistry(t)
	rows := []Row{
		{"h1"},
		{"h2"},
		{"25th December 2025", "History", "Offline", "10:00 AM - 12:00 PM", "150096725001"},
	}

	AssignTheory(reg, rows, nil)

	rec, _ := reg.Get("150096725001")
	require.Len(t, rec.Theory, 1)
	assert.Equal(t, "", rec.Theory[0].Location)
}
