// Package calendar renders a student's exams as an iCalendar (.ics) file.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/pkg/timeutil"
)

const (
	productID = "-//College Exams//Scheduler//EN"

	// Event locations are fixed per kind; the schedule's own location field
	// is not used in calendar events.
	TheoryLocation    = "Exam Hall"
	PracticalLocation = "Lab"
)

// eventNamespace seeds deterministic event UIDs, so re-exporting the same
// schedule updates events in calendar clients instead of duplicating them.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://exam-schedule-hub/events"))

// Config configures the generator.
type Config struct {
	// Year for dates written without one.
	DefaultYear int
	// Timezone the sheet times are written in.
	Location *time.Location
	// Now supplies DTSTAMP; defaults to time.Now.
	Now func() time.Time
}

// Generator builds calendars.
type Generator struct {
	year int
	loc  *time.Location
	now  func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(cfg Config) *Generator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Generator{year: cfg.DefaultYear, loc: cfg.Location, now: cfg.Now}
}

// SkippedExam is an exam whose date or time could not be parsed.
type SkippedExam struct {
	Kind    schedule.ExamKind `json:"kind"`
	Subject string            `json:"subject"`
	Date    string            `json:"date"`
	Time    string            `json:"time"`
	Reason  string            `json:"reason"`
}

// Result is a rendered calendar.
type Result struct {
	Body    string
	Events  int
	Skipped []SkippedExam
}

// Filename returns the suggested download name for a student's calendar.
func Filename(rec *schedule.StudentRecord) string {
	return fmt.Sprintf("%s_exams.ics", rec.RollNo.String())
}

// Generate renders every theory and practical exam of the student. Exams
// with an unparseable date or time are left out and reported in Skipped.
func (g *Generator) Generate(rec *schedule.StudentRecord) Result {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetCalscale("GREGORIAN")

	stamp := g.now()
	var res Result

	add := func(kind schedule.ExamKind, idx int, subject, date, slot, location string) {
		start, end, err := timeutil.ExamWindow(date, slot, g.year, g.loc)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedExam{
				Kind: kind, Subject: subject, Date: date, Time: slot, Reason: err.Error(),
			})
			return
		}

		ev := cal.AddEvent(eventUID(rec, kind, idx, subject, date, slot))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(fmt.Sprintf("%s Exam: %s", kind, subject))
		ev.SetDescription(fmt.Sprintf("Subject: %s\nType: %s", subject, kind))
		ev.SetLocation(location)
		res.Events++
	}

	for i, e := range rec.Theory {
		add(schedule.KindTheory, i, e.Subject, e.Date, e.Time, TheoryLocation)
	}
	for i, e := range rec.Practical {
		add(schedule.KindPractical, i, e.Subject, e.Date, e.Time, PracticalLocation)
	}

	res.Body = cal.Serialize()
	return res
}

// eventUID is stable for the same student, exam and position in the list.
func eventUID(rec *schedule.StudentRecord, kind schedule.ExamKind, idx int, subject, date, slot string) string {
	key := strings.Join([]string{rec.RollNo.String(), string(kind), strconv.Itoa(idx), date, subject, slot}, "|")
	return uuid.NewSHA1(eventNamespace, []byte(key)).String()
}

// Render returns the download name, the serialized calendar and the number
// of events written.
func (g *Generator) Render(rec *schedule.StudentRecord) (filename, body string, events int) {
	res := g.Generate(rec)
	return Filename(rec), res.Body, res.Events
}
