// Package query contains read operations (CQRS - Queries).
// Queries answer the search API from an immutable in-memory dataset.
package query

import (
	"context"
	"time"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
)

// ══════════════════════════════════════════════════════════════════════════════
// DATASET
// Загруженный артефакт. После создания не изменяется, поэтому обработчики
// разделяют его без блокировок.
// ══════════════════════════════════════════════════════════════════════════════

// Dataset is the loaded artifact. Records keep the file's order and length;
// when a roll number repeats, Get returns its first record.
type Dataset struct {
	byRoll     map[string]*schedule.StudentRecord
	records    []*schedule.StudentRecord
	duplicates int
	digest     string
	size       int
	loadedAt   time.Time
}

// NewDataset wraps a snapshot.
func NewDataset(snap *schedule.Snapshot, loadedAt time.Time) *Dataset {
	d := &Dataset{
		byRoll:   make(map[string]*schedule.StudentRecord, len(snap.Records)),
		records:  snap.Records,
		digest:   snap.Digest,
		size:     snap.Size,
		loadedAt: loadedAt,
	}
	for _, rec := range snap.Records {
		if rec.Theory == nil {
			rec.Theory = []schedule.TheoryEntry{}
		}
		if rec.Practical == nil {
			rec.Practical = []schedule.PracticalEntry{}
		}
		key := rec.RollNo.String()
		if _, ok := d.byRoll[key]; ok {
			d.duplicates++
			continue
		}
		d.byRoll[key] = rec
	}
	return d
}

// LoadDataset reads the artifact through repo.
func LoadDataset(ctx context.Context, repo schedule.ArtifactRepository) (*Dataset, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewDataset(snap, time.Now()), nil
}

// Digest returns the full content digest of the artifact.
func (d *Dataset) Digest() string { return d.digest }

// Version returns a short form of the digest used in cache keys.
func (d *Dataset) Version() string {
	if len(d.digest) > 16 {
		return d.digest[:16]
	}
	return d.digest
}

// Len returns the number of students.
func (d *Dataset) Len() int { return len(d.records) }

// Size returns the artifact size in bytes.
func (d *Dataset) Size() int { return d.size }

// LoadedAt returns when the dataset was loaded.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Duplicates returns how many records repeat an earlier roll number.
func (d *Dataset) Duplicates() int { return d.duplicates }

// Get returns the first student with the given roll number.
func (d *Dataset) Get(rollNo string) (*schedule.StudentRecord, bool) {
	rec, ok := d.byRoll[rollNo]
	return rec, ok
}

// Records returns students in artifact order. Callers must not modify them.
func (d *Dataset) Records() []*schedule.StudentRecord { return d.records }

// ══════════════════════════════════════════════════════════════════════════════
// CACHE PORT
// ══════════════════════════════════════════════════════════════════════════════

// ResponseCache stores query results. Implementations namespace keys
// themselves; callers embed the dataset version in every key.
type ResponseCache interface {
	// GetJSON loads a cached value into dest and reports whether it was found.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)

	// SetJSON stores a value.
	SetJSON(ctx context.Context, key string, value any) error
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEWS
// Формат совпадает с артефактом, который читает интерфейс.
// ══════════════════════════════════════════════════════════════════════════════

// ExamView is one exam in API responses.
type ExamView struct {
	Date      string `json:"date"`
	Subject   string `json:"subject"`
	Panel     string `json:"panel,omitempty"`
	Time      string `json:"time"`
	Location  string `json:"location"`
	Type      string `json:"type"`
	Professor string `json:"professor,omitempty"`
}

// StudentView is one student in API responses.
type StudentView struct {
	RollNo    string     `json:"rollNo"`
	Name      string     `json:"name"`
	Theory    []ExamView `json:"theory"`
	Practical []ExamView `json:"practical"`
}

// NewStudentView maps a record to its view.
func NewStudentView(rec *schedule.StudentRecord) StudentView {
	v := StudentView{
		RollNo:    rec.RollNo.String(),
		Name:      rec.Name,
		Theory:    make([]ExamView, 0, len(rec.Theory)),
		Practical: make([]ExamView, 0, len(rec.Practical)),
	}
	for _, e := range rec.Theory {
		v.Theory = append(v.Theory, ExamView{
			Date:     e.Date,
			Subject:  e.Subject,
			Time:     e.Time,
			Location: e.Location,
			Type:     string(e.Kind()),
		})
	}
	for _, e := range rec.Practical {
		v.Practical = append(v.Practical, ExamView{
			Date:      e.Date,
			Subject:   e.Subject,
			Panel:     e.Panel,
			Time:      e.Time,
			Location:  e.Location,
			Type:      string(e.Kind()),
			Professor: e.Professor,
		})
	}
	return v
}
