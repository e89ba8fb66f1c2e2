package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
)

func TestBuildSchedule_Handle(t *testing.T) {
	artifact := &fakeArtifact{}
	report := &fakeReport{}
	h := NewBuildScheduleHandler(buildSources(), artifact, report, schedule.DefaultMarkers())

	res, err := h.Handle(context.Background(), BuildScheduleCommand{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Students)
	assert.Equal(t, 2, res.TheoryEntries)
	assert.Equal(t, 1, res.PracticalEntries)
	assert.Equal(t, 1, res.Theory.Rows)
	assert.Equal(t, 1, res.Practical.DayBlocks)
	assert.Equal(t, 42, res.Save.Bytes)

	require.Len(t, artifact.saved, 1)
	saved := artifact.saved[0]
	require.Len(t, saved, 2)
	assert.Equal(t, "150096725001", saved[0].RollNo.String())
	assert.Equal(t, "Bunker 2", saved[0].Practical[0].Location)
	assert.Empty(t, saved[1].Practical)

	require.Len(t, report.reports, 1)
	r := report.reports[0]
	assert.Equal(t, res.RunID, r.RunID)
	assert.Equal(t, "build", r.Mode)
	assert.Equal(t, 2, r.Counts["students"])
	assert.Equal(t, 1, r.Summary[schedule.DiagUnmatchedName])
}

func TestBuildSchedule_DryRunWritesNothing(t *testing.T) {
	artifact := &fakeArtifact{}
	report := &fakeReport{}
	h := NewBuildScheduleHandler(buildSources(), artifact, report, schedule.DefaultMarkers())

	res, err := h.Handle(context.Background(), BuildScheduleCommand{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Students)
	assert.Empty(t, artifact.saved)
	assert.Empty(t, report.reports)
	assert.Empty(t, res.Save.Path)
}

func TestBuildSchedule_NilReportWriter(t *testing.T) {
	artifact := &fakeArtifact{}
	h := NewBuildScheduleHandler(buildSources(), artifact, nil, schedule.DefaultMarkers())

	_, err := h.Handle(context.Background(), BuildScheduleCommand{})
	require.NoError(t, err)
	assert.Len(t, artifact.saved, 1)
}

func TestBuildSchedule_EmptyRosterWritesEmptyArtifact(t *testing.T) {
	sources := buildSources()
	sources.rows[schedule.SourceRoster] = []schedule.Row{
		{"Roll No", "Enrollment", "Name"},
		{"150096725001", "E1"},
	}
	artifact := &fakeArtifact{}
	report := &fakeReport{}

	res, err := NewBuildScheduleHandler(sources, artifact, report, schedule.DefaultMarkers()).
		Handle(context.Background(), BuildScheduleCommand{})
	require.NoError(t, err)

	assert.Zero(t, res.Students)
	assert.Zero(t, res.TheoryEntries)
	require.Len(t, artifact.saved, 1)
	assert.Empty(t, artifact.saved[0])
	assert.Equal(t, 1, res.Diagnostics.Count(schedule.DiagMalformedRow))
	require.Len(t, report.reports, 1)
}

func TestBuildSchedule_SourceErrorStopsBeforeWrite(t *testing.T) {
	sources := buildSources()
	sources.errs = map[schedule.Source]error{
		schedule.SourcePractical: shared.ErrSourceUnreadable,
	}
	artifact := &fakeArtifact{}

	_, err := NewBuildScheduleHandler(sources, artifact, nil, schedule.DefaultMarkers()).
		Handle(context.Background(), BuildScheduleCommand{})

	assert.ErrorIs(t, err, shared.ErrSourceUnreadable)
	assert.Empty(t, artifact.saved)
}

func TestBuildSchedule_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	artifact := &fakeArtifact{}

	_, err := NewBuildScheduleHandler(buildSources(), artifact, nil, schedule.DefaultMarkers()).
		Handle(ctx, BuildScheduleCommand{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, artifact.saved)
}

func TestBuildSchedule_SaveError(t *testing.T) {
	errDisk := errors.New("disk full")
	artifact := &fakeArtifact{saveErr: errDisk}
	report := &fakeReport{}

	_, err := NewBuildScheduleHandler(buildSources(), artifact, report, schedule.DefaultMarkers()).
		Handle(context.Background(), BuildScheduleCommand{})

	assert.ErrorIs(t, err, errDisk)
	assert.Empty(t, report.reports)
}

func TestBuildSchedule_ReportErrorKeepsSavedArtifact(t *testing.T) {
	errDisk := errors.New("disk full")
	artifact := &fakeArtifact{}

	res, err := NewBuildScheduleHandler(buildSources(), artifact, &fakeReport{err: errDisk}, schedule.DefaultMarkers()).
		Handle(context.Background(), BuildScheduleCommand{})
	require.NoError(t, err)

	require.Len(t, artifact.saved, 1)
	assert.Equal(t, "exam_data.json", res.Save.Path)
	require.Error(t, res.ReportErr)
	assert.ErrorIs(t, res.ReportErr, errDisk)
	assert.Contains(t, res.ReportErr.Error(), "diagnostics report")
}
