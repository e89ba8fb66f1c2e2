package command

import (
	"context"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
)

type fakeSources struct {
	rows map[schedule.Source][]schedule.Row
	errs map[schedule.Source]error
}

func (f *fakeSources) Rows(_ context.Context, src schedule.Source) ([]schedule.Row, error) {
	if err := f.errs[src]; err != nil {
		return nil, err
	}
	return f.rows[src], nil
}

type fakeArtifact struct {
	snap    *schedule.Snapshot
	loadErr error
	saveErr error
	saved   [][]*schedule.StudentRecord
}

func (f *fakeArtifact) Load(context.Context) (*schedule.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snap, nil
}

func (f *fakeArtifact) Save(_ context.Context, records []*schedule.StudentRecord) (schedule.SaveResult, error) {
	if f.saveErr != nil {
		return schedule.SaveResult{}, f.saveErr
	}
	f.saved = append(f.saved, records)
	return schedule.SaveResult{Path: "exam_data.json", Digest: "abc", Bytes: 42}, nil
}

type fakeReport struct {
	reports []*schedule.Report
	err     error
}

func (f *fakeReport) WriteReport(_ context.Context, r *schedule.Report) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, r)
	return nil
}

func practicalGrid() []schedule.Row {
	return []schedule.Row{
		{"Day 1 : 17th Dec : Wed"},
		{"Venue", "", "Bunker 2"},
		{"Slot No.", "Time", "Panel 1 Prof. Vishakha - Python"},
		{"1", "10:00 AM - 11:00 AM", "Asha Verma", "Ghost Name"},
	}
}

func buildSources() *fakeSources {
	return &fakeSources{rows: map[schedule.Source][]schedule.Row{
		schedule.SourceRoster: {
			{"Roll No", "Enrollment", "Name"},
			{"150096725001", "E1", "Asha Verma"},
			{"150096725002", "E2", "Rahul Nair"},
		},
		schedule.SourceTheory: {
			{"Theory Examination"},
			{"Date", "Subject", "Code", "Time", "Roll Numbers", "Count", "Venue"},
			{"23rd December 2025", "Maths", "MA101", "10:00 AM - 01:00 PM", "150096725001 to 150096725002", "2", "Hall A"},
		},
		schedule.SourcePractical: practicalGrid(),
	}}
}
