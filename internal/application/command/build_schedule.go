// Package command contains write operations (CQRS - Commands).
// Commands produce or patch the schedule artifact.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUILD SCHEDULE COMMAND
// Reads the three spreadsheet exports, runs the roster, theory and practical
// passes and writes the artifact once, after every pass succeeded.
// ══════════════════════════════════════════════════════════════════════════════

// BuildScheduleCommand contains the options of one build.
type BuildScheduleCommand struct {
	// DryRun runs every pass but writes nothing.
	DryRun bool
}

// BuildScheduleResult contains the outcome of a build.
type BuildScheduleResult struct {
	RunID string

	// Students is the number of distinct roll numbers in the registry.
	Students int

	Theory    schedule.TheoryResult
	Practical schedule.PracticalResult

	// TheoryEntries and PracticalEntries are totals over all students.
	TheoryEntries    int
	PracticalEntries int

	// Save is empty on a dry run.
	Save schedule.SaveResult

	Diagnostics *schedule.Diagnostics
	// ReportErr is set when the artifact was saved but the diagnostics
	// report could not be written. The build itself still succeeded.
	ReportErr error
	Duration  time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// BuildScheduleHandler handles BuildScheduleCommand.
type BuildScheduleHandler struct {
	sources  schedule.SourceRepository
	artifact schedule.ArtifactRepository
	report   schedule.ReportWriter
	markers  schedule.Markers
	now      func() time.Time
}

// NewBuildScheduleHandler creates a handler. report may be nil.
func NewBuildScheduleHandler(
	sources schedule.SourceRepository,
	artifact schedule.ArtifactRepository,
	report schedule.ReportWriter,
	markers schedule.Markers,
) *BuildScheduleHandler {
	return &BuildScheduleHandler{
		sources:  sources,
		artifact: artifact,
		report:   report,
		markers:  markers,
		now:      time.Now,
	}
}

// Handle executes the build. Inputs are read fully before any pass runs;
// the context is checked between passes so a cancelled build never writes.
func (h *BuildScheduleHandler) Handle(ctx context.Context, cmd BuildScheduleCommand) (*BuildScheduleResult, error) {
	start := h.now()
	result := &BuildScheduleResult{
		RunID:       uuid.NewString(),
		Diagnostics: &schedule.Diagnostics{},
	}

	roster, err := h.sources.Rows(ctx, schedule.SourceRoster)
	if err != nil {
		return nil, err
	}
	theory, err := h.sources.Rows(ctx, schedule.SourceTheory)
	if err != nil {
		return nil, err
	}
	practical, err := h.sources.Rows(ctx, schedule.SourcePractical)
	if err != nil {
		return nil, err
	}

	// Шаг 1: реестр студентов
	// Пустой реестр не ошибка: артефакт будет пустым массивом.
	reg := schedule.LoadRoster(roster, result.Diagnostics)
	result.Students = reg.Len()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Шаг 2: теоретические экзамены
	result.Theory = schedule.AssignTheory(reg, theory, result.Diagnostics)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Шаг 3: практические экзамены
	result.Practical = schedule.AssignPractical(reg, practical, h.markers, result.Diagnostics)
	result.TheoryEntries, result.PracticalEntries = reg.Totals()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !cmd.DryRun {
		saved, err := h.artifact.Save(ctx, reg.Records())
		if err != nil {
			return nil, err
		}
		result.Save = saved

		result.ReportErr = writeReport(ctx, h.report, "build", result.RunID, result.counts(), result.Diagnostics)
	}

	result.Duration = h.now().Sub(start)
	return result, nil
}

func (r *BuildScheduleResult) counts() map[string]int {
	return map[string]int{
		"students":          r.Students,
		"theory_rows":       r.Theory.Rows,
		"theory_skipped":    r.Theory.Skipped,
		"theory_entries":    r.TheoryEntries,
		"practical_blocks":  r.Practical.DayBlocks,
		"practical_cells":   r.Practical.Cells,
		"practical_entries": r.PracticalEntries,
	}
}

func writeReport(ctx context.Context, w schedule.ReportWriter, mode, runID string, counts map[string]int, diags *schedule.Diagnostics) error {
	if w == nil {
		return nil
	}
	report := &schedule.Report{
		RunID:       runID,
		Mode:        mode,
		Counts:      counts,
		Summary:     diags.Summary(),
		Diagnostics: diags.Items(),
	}
	if err := w.WriteReport(ctx, report); err != nil {
		return fmt.Errorf("diagnostics report: %w", err)
	}
	return nil
}
