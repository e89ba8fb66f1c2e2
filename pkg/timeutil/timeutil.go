// Package timeutil parses the human-written exam dates and time slots found in
// the schedule sheets, e.g. "23rd December 2025", "Day 1 : 17th Dec : Wed" and
// "10:00 AM - 12:00 PM", into concrete instants in a given timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Errors returned by the parsers.
var (
	ErrUnknownDateFormat = errors.New("unknown date format")
	ErrUnknownMonth      = errors.New("unknown month")
	ErrUnknownTimeFormat = errors.New("unknown time format")
)

var (
	shortMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

	leadingDigits = regexp.MustCompile(`^\d+`)
	yearToken     = regexp.MustCompile(`\b(\d{4})\b`)
	clockPattern  = regexp.MustCompile(`(?i)(\d+):(\d+)\s*(AM|PM)`)
	dashes        = strings.NewReplacer("\u2013", "-", "\u2014", "-")
)

// MonthIndex resolves a month name. A name starting with a three-letter
// abbreviation ("Dec", "December", "Decem") or a full month name matches,
// case-insensitively.
func MonthIndex(name string) (time.Month, error) {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	for i, m := range shortMonths {
		if strings.HasPrefix(lower, strings.ToLower(m)) {
			return time.Month(i + 1), nil
		}
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, name)
}

// ParseDate parses either "<ordinal-day> <MonthName> <year>" or
// "Day <n> : <ordinal-day> <Month3> : <weekday>". The second form carries no
// year, so defaultYear is used. The result is midnight in loc.
func ParseDate(s string, defaultYear int, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	var (
		dayMonth string
		year     = defaultYear
	)

	switch {
	case strings.Contains(s, ":"):
		parts := strings.Split(s, ":")
		dayMonth = strings.TrimSpace(parts[1])
	case yearToken.MatchString(s):
		y, _ := strconv.Atoi(yearToken.FindStringSubmatch(s)[1])
		year = y
		dayMonth = s
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownDateFormat, s)
	}

	fields := strings.Fields(dayMonth)
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownDateFormat, s)
	}

	digits := leadingDigits.FindString(fields[0])
	if digits == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownDateFormat, s)
	}
	day, _ := strconv.Atoi(digits)

	month, err := MonthIndex(fields[1])
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	// time.Date would roll "45th December" into January.
	if day < 1 || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: day %d out of range in %q", ErrUnknownDateFormat, day, s)
	}
	return t, nil
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "10:00 AM" / "1:30 pm". 12 AM is midnight, 12 PM is noon.
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrUnknownTimeFormat, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	switch strings.ToUpper(m[3]) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseTimeRange parses "<start> - <end>" where the separator may be a
// hyphen, an en dash or an em dash.
func ParseTimeRange(s string) (start, end Clock, err error) {
	parts := strings.Split(dashes.Replace(s), "-")
	if len(parts) < 2 {
		return Clock{}, Clock{}, fmt.Errorf("%w: %q", ErrUnknownTimeFormat, s)
	}

	if start, err = ParseClock(strings.TrimSpace(parts[0])); err != nil {
		return Clock{}, Clock{}, err
	}
	if end, err = ParseClock(strings.TrimSpace(parts[1])); err != nil {
		return Clock{}, Clock{}, err
	}
	return start, end, nil
}

// At returns the instant of c on the calendar day of date.
func (c Clock) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// ExamWindow combines a schedule date and time slot into start and end instants.
func ExamWindow(date, slot string, defaultYear int, loc *time.Location) (time.Time, time.Time, error) {
	day, err := ParseDate(date, defaultYear, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end, err := ParseTimeRange(slot)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.At(day), end.At(day), nil
}
