package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
)

func testGenerator() *Generator {
	return NewGenerator(Config{
		DefaultYear: 2025,
		Location:    time.FixedZone("IST", 5*3600+1800),
		Now:         func() time.Time { return time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func testRecord() *schedule.StudentRecord {
	rec := schedule.NewStudentRecord("150096725001", "Asha Verma")
	rec.AddTheory(schedule.TheoryEntry{
		Date: "23rd December 2025", Subject: "Maths", Time: "10:00 AM - 01:00 PM", Location: "Hall A",
	})
	rec.AddPractical(schedule.PracticalEntry{
		Date: "Day 1 : 17th Dec : Wed", Subject: "Python", Panel: "Panel 1",
		Time: "10:00 AM - 11:00 AM", Location: "Bunker 2",
	})
	rec.AddPractical(schedule.PracticalEntry{
		Date: "TBD", Subject: "Java", Time: "TBD", Location: schedule.UnknownVenue,
	})
	return rec
}

func TestGenerator_Generate(t *testing.T) {
	res := testGenerator().Generate(testRecord())

	assert.Equal(t, 2, res.Events)
	assert.Equal(t, 2, strings.Count(res.Body, "BEGIN:VEVENT"))
	assert.Contains(t, res.Body, "SUMMARY:Theory Exam: Maths")
	assert.Contains(t, res.Body, "SUMMARY:Practical Exam: Python")
	assert.Contains(t, res.Body, "LOCATION:"+TheoryLocation)
	assert.Contains(t, res.Body, "LOCATION:"+PracticalLocation)
	assert.Contains(t, res.Body, "DTSTART:20251223T043000Z")
	assert.NotContains(t, res.Body, "Hall A")

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Java", res.Skipped[0].Subject)
	assert.Equal(t, schedule.KindPractical, res.Skipped[0].Kind)
}

func TestGenerator_SkipsImpossibleDay(t *testing.T) {
	rec := schedule.NewStudentRecord("150096725001", "Asha Verma")
	rec.AddTheory(schedule.TheoryEntry{
		Date: "45th December 2025", Subject: "Physics", Time: "10:00 AM - 01:00 PM", Location: "Hall A",
	})

	res := testGenerator().Generate(rec)

	assert.Zero(t, res.Events)
	assert.NotContains(t, res.Body, "BEGIN:VEVENT")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Physics", res.Skipped[0].Subject)
	assert.Contains(t, res.Skipped[0].Reason, "out of range")
}

func TestGenerator_DeterministicUIDs(t *testing.T) {
	g := testGenerator()
	rec := testRecord()

	assert.Equal(t, g.Generate(rec).Body, g.Generate(rec).Body)

	first := eventUID(rec, schedule.KindTheory, 0, "Maths", "23rd December 2025", "10:00 AM - 01:00 PM")
	other := eventUID(rec, schedule.KindTheory, 1, "Maths", "23rd December 2025", "10:00 AM - 01:00 PM")
	assert.NotEqual(t, first, other)
	assert.Contains(t, g.Generate(rec).Body, "UID:"+first)
}

func TestGenerator_Render(t *testing.T) {
	name, body, events := testGenerator().Render(testRecord())

	assert.Equal(t, "150096725001_exams.ics", name)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, events)
}
