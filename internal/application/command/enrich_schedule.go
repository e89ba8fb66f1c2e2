package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENRICH SCHEDULE COMMAND
// Re-reads the practical grid and patches venue and professor into the
// practical entries of an existing artifact. No entry is created.
// ══════════════════════════════════════════════════════════════════════════════

// EnrichScheduleCommand contains the options of one enrichment pass.
type EnrichScheduleCommand struct {
	// DryRun patches in memory but writes nothing.
	DryRun bool
}

// EnrichScheduleResult contains the outcome of enrichment.
type EnrichScheduleResult struct {
	RunID string

	// Students is the number of records in the artifact, repeats included.
	Students   int
	Duplicates int

	schedule.EnrichResult

	// Save is empty on a dry run.
	Save schedule.SaveResult

	Diagnostics *schedule.Diagnostics
	// ReportErr is set when the artifact was saved but the diagnostics
	// report could not be written.
	ReportErr error
	Duration  time.Duration
}

// EnrichScheduleHandler handles EnrichScheduleCommand.
type EnrichScheduleHandler struct {
	sources  schedule.SourceRepository
	artifact schedule.ArtifactRepository
	report   schedule.ReportWriter
	markers  schedule.Markers
	now      func() time.Time
}

// NewEnrichScheduleHandler creates a handler. report may be nil.
func NewEnrichScheduleHandler(
	sources schedule.SourceRepository,
	artifact schedule.ArtifactRepository,
	report schedule.ReportWriter,
	markers schedule.Markers,
) *EnrichScheduleHandler {
	return &EnrichScheduleHandler{
		sources:  sources,
		artifact: artifact,
		report:   report,
		markers:  markers,
		now:      time.Now,
	}
}

// Handle executes the enrichment. Any returned error leaves the artifact
// untouched; a failed report after a successful save lands in ReportErr.
func (h *EnrichScheduleHandler) Handle(ctx context.Context, cmd EnrichScheduleCommand) (*EnrichScheduleResult, error) {
	start := h.now()
	result := &EnrichScheduleResult{
		RunID:       uuid.NewString(),
		Diagnostics: &schedule.Diagnostics{},
	}

	snap, err := h.artifact.Load(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := h.sources.Rows(ctx, schedule.SourcePractical)
	if err != nil {
		return nil, err
	}

	// Записи правятся на месте; повторяющиеся номера сохраняются как есть.
	records := snap.Records
	result.Students = len(records)
	result.Duplicates = schedule.ReportDuplicateRolls(records, result.Diagnostics)
	result.EnrichResult = schedule.EnrichPractical(records, rows, h.markers, result.Diagnostics)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !cmd.DryRun {
		saved, err := h.artifact.Save(ctx, records)
		if err != nil {
			return nil, err
		}
		result.Save = saved

		counts := map[string]int{
			"students":   result.Students,
			"duplicates": result.Duplicates,
			"processed":  result.Processed,
			"matched":    result.Matched,
			"updated":    result.Updated,
			"changed":    result.Changed,
		}
		result.ReportErr = writeReport(ctx, h.report, "enrich", result.RunID, counts, result.Diagnostics)
	}

	result.Duration = h.now().Sub(start)
	return result, nil
}
