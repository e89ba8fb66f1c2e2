package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT CALENDAR QUERY
// Календарь экзаменов одного студента в формате iCalendar.
// ══════════════════════════════════════════════════════════════════════════════

// CalendarRenderer serializes a student's exams.
type CalendarRenderer interface {
	Render(rec *schedule.StudentRecord) (filename, body string, events int)
}

// ExportCalendarQuery selects the student.
type ExportCalendarQuery struct {
	RollNo string
}

// CalendarFile is a rendered calendar.
type CalendarFile struct {
	Filename string `json:"filename"`
	Body     string `json:"body"`
	Events   int    `json:"events"`
	Cached   bool   `json:"-"`
}

// ExportCalendarHandler handles ExportCalendarQuery.
type ExportCalendarHandler struct {
	data     *Dataset
	renderer CalendarRenderer
	cache    ResponseCache
}

// NewExportCalendarHandler creates a handler. cache may be nil.
func NewExportCalendarHandler(data *Dataset, renderer CalendarRenderer, cache ResponseCache) *ExportCalendarHandler {
	return &ExportCalendarHandler{data: data, renderer: renderer, cache: cache}
}

// Handle renders the calendar or returns shared.ErrStudentNotFound.
func (h *ExportCalendarHandler) Handle(ctx context.Context, q ExportCalendarQuery) (*CalendarFile, error) {
	roll := strings.TrimSpace(q.RollNo)
	rec, ok := h.data.Get(roll)
	if !ok {
		return nil, shared.ErrStudentNotFound
	}

	key := fmt.Sprintf("calendar:%s:%s", h.data.Version(), roll)
	if h.cache != nil {
		var cached CalendarFile
		if hit, err := h.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	name, body, events := h.renderer.Render(rec)
	file := &CalendarFile{Filename: name, Body: body, Events: events}

	if h.cache != nil {
		_ = h.cache.SetJSON(ctx, key, file)
	}
	return file, nil
}
