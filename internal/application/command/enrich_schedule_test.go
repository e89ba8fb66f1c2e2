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

func enrichArtifact() *fakeArtifact {
	asha := schedule.NewStudentRecord("150096725001", "Asha Verma")
	asha.AddPractical(schedule.PracticalEntry{
		Date: "Day 1 : 17th Dec : Wed", Subject: "Python", Panel: "Panel 1",
		Time: "10:00 AM - 11:00 AM", Location: schedule.UnknownVenue,
	})
	return &fakeArtifact{snap: &schedule.Snapshot{
		Records: []*schedule.StudentRecord{asha, schedule.NewStudentRecord("150096725002", "Rahul Nair")},
	}}
}

func TestEnrichSchedule_Handle(t *testing.T) {
	artifact := enrichArtifact()
	report := &fakeReport{}
	h := NewEnrichScheduleHandler(buildSources(), artifact, report, schedule.DefaultMarkers())

	res, err := h.Handle(context.Background(), EnrichScheduleCommand{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Students)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, []string{"Ghost Name"}, res.Diagnostics.Values(schedule.DiagUnmatchedName))

	require.Len(t, artifact.saved, 1)
	entry := artifact.saved[0][0].Practical[0]
	assert.Equal(t, "Bunker 2", entry.Location)
	assert.Equal(t, "Prof. Vishakha", entry.Professor)
	assert.Empty(t, artifact.saved[0][1].Practical)

	require.Len(t, report.reports, 1)
	assert.Equal(t, "enrich", report.reports[0].Mode)
	assert.Equal(t, 1, report.reports[0].Counts["changed"])
}

func TestEnrichSchedule_DryRun(t *testing.T) {
	artifact := enrichArtifact()

	res, err := NewEnrichScheduleHandler(buildSources(), artifact, nil, schedule.DefaultMarkers()).
		Handle(context.Background(), EnrichScheduleCommand{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Changed)
	assert.Empty(t, artifact.saved)
}

func TestEnrichSchedule_LoadErrorLeavesArtifact(t *testing.T) {
	artifact := &fakeArtifact{loadErr: shared.ErrArtifactCorrupt}

	_, err := NewEnrichScheduleHandler(buildSources(), artifact, nil, schedule.DefaultMarkers()).
		Handle(context.Background(), EnrichScheduleCommand{})

	assert.ErrorIs(t, err, shared.ErrArtifactCorrupt)
	assert.Empty(t, artifact.saved)
}

func TestEnrichSchedule_SourceError(t *testing.T) {
	sources := buildSources()
	sources.errs = map[schedule.Source]error{schedule.SourcePractical: shared.ErrSourceUnreadable}
	artifact := enrichArtifact()

	_, err := NewEnrichScheduleHandler(sources, artifact, nil, schedule.DefaultMarkers()).
		Handle(context.Background(), EnrichScheduleCommand{})

	assert.ErrorIs(t, err, shared.ErrSourceUnreadable)
	assert.Empty(t, artifact.saved)
}

func TestEnrichSchedule_RepeatedRollsKeepArtifactLength(t *testing.T) {
	artifact := enrichArtifact()
	twin := schedule.NewStudentRecord("150096725001", "Asha Verma Copy")
	artifact.snap.Records = append(artifact.snap.Records, twin)

	res, err := NewEnrichScheduleHandler(buildSources(), artifact, nil, schedule.DefaultMarkers()).
		Handle(context.Background(), EnrichScheduleCommand{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Students)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, []string{"150096725001"}, res.Diagnostics.Values(schedule.DiagDuplicateRoll))
	require.Len(t, artifact.saved, 1)
	require.Len(t, artifact.saved[0], 3)
	assert.Same(t, twin, artifact.saved[0][2])
	assert.Equal(t, "Bunker 2", artifact.saved[0][0].Practical[0].Location)
}

func TestEnrichSchedule_ReportError(t *testing.T) {
	artifact := enrichArtifact()

	res, err := NewEnrichScheduleHandler(buildSources(), artifact, &fakeReport{err: errors.New("read-only")}, schedule.DefaultMarkers()).
		Handle(context.Background(), EnrichScheduleCommand{})
	require.NoError(t, err)

	assert.Len(t, artifact.saved, 1)
	assert.Error(t, res.ReportErr)
}
