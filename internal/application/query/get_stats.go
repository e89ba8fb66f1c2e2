package query

import (
	"context"
	"time"
)

// StatsResult describes the loaded dataset.
type StatsResult struct {
	Students         int       `json:"students"`
	TheoryEntries    int       `json:"theoryEntries"`
	PracticalEntries int       `json:"practicalEntries"`
	WithoutExams     int       `json:"withoutExams"`
	ExamDates        int       `json:"examDates"`
	Subjects         int       `json:"subjects"`
	Version          string    `json:"version"`
	Bytes            int       `json:"bytes"`
	LoadedAt         time.Time `json:"loadedAt"`
}

// GetStatsHandler computes StatsResult once; the dataset never changes.
type GetStatsHandler struct {
	stats StatsResult
}

// NewGetStatsHandler creates a handler.
func NewGetStatsHandler(data *Dataset) *GetStatsHandler {
	s := StatsResult{
		Students: data.Len(),
		Version:  data.Version(),
		Bytes:    data.Size(),
		LoadedAt: data.LoadedAt(),
	}

	dates := make(map[string]struct{})
	subjects := make(map[string]struct{})
	for _, rec := range data.Records() {
		if rec.ExamCount() == 0 {
			s.WithoutExams++
		}
		s.TheoryEntries += len(rec.Theory)
		s.PracticalEntries += len(rec.Practical)
		for _, e := range rec.Theory {
			dates[e.Date] = struct{}{}
			subjects[e.Subject] = struct{}{}
		}
		for _, e := range rec.Practical {
			dates[e.Date] = struct{}{}
			subjects[e.Subject] = struct{}{}
		}
	}
	s.ExamDates = len(dates)
	s.Subjects = len(subjects)

	return &GetStatsHandler{stats: s}
}

// Handle returns the precomputed stats.
func (h *GetStatsHandler) Handle(ctx context.Context) (*StatsResult, error) {
	s := h.stats
	return &s, nil
}
