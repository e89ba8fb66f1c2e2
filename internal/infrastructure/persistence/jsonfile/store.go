package jsonfile

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENCODING
// ══════════════════════════════════════════════════════════════════════════════

// Encode serializes records as an indented JSON array. The output is
// deterministic for a given record order, so an unchanged build produces
// byte-identical files.
func Encode(records []*schedule.StudentRecord) ([]byte, error) {
	return encodeValue(ToDTOs(records))
}

// Decode parses an artifact.
func Decode(data []byte) ([]*schedule.StudentRecord, error) {
	var dtos []StudentDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, shared.ErrArtifactCorrupt.Wrap(err)
	}
	return FromDTOs(dtos), nil
}

func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest returns the hex BLAKE2b-256 digest of an encoded artifact.
// It serves as the dataset version for ETags and cache keys.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store reads and writes the artifact at a fixed path.
type Store struct {
	path string
}

var _ schedule.ArtifactRepository = (*Store)(nil)

// NewStore creates a store for the given artifact path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the artifact.
func (s *Store) Load(ctx context.Context) (*schedule.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, shared.ErrArtifactUnreadable.Wrap(err)
	}

	records, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &schedule.Snapshot{
		Records: records,
		Digest:  Digest(data),
		Size:    len(data),
	}, nil
}

// Save serializes the records and replaces the artifact atomically. The parent
// directory is created when absent. The previous file stays intact on any error.
func (s *Store) Save(ctx context.Context, records []*schedule.StudentRecord) (schedule.SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return schedule.SaveResult{}, err
	}

	data, err := Encode(records)
	if err != nil {
		return schedule.SaveResult{}, shared.ErrArtifactWrite.Wrap(err)
	}

	res := schedule.SaveResult{Path: s.path, Digest: Digest(data), Bytes: len(data)}

	if existing, err := os.ReadFile(s.path); err == nil && bytes.Equal(existing, data) {
		res.Unchanged = true
		return res, nil
	}

	if err := WriteFileAtomic(s.path, data); err != nil {
		return schedule.SaveResult{}, shared.ErrArtifactWrite.Wrap(err)
	}
	return res, nil
}

// ReportFile writes the diagnostics report to a fixed path.
type ReportFile struct {
	path string
}

// NewReportFile creates a report writer for path.
func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

// WriteReport implements schedule.ReportWriter.
func (r *ReportFile) WriteReport(ctx context.Context, report *schedule.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SaveJSON(r.path, report)
}

// SaveJSON writes any value as indented JSON with the same atomic guarantees.
// Used for the diagnostics report.
func SaveJSON(path string, v any) error {
	data, err := encodeValue(v)
	if err != nil {
		return shared.ErrArtifactWrite.Wrap(err)
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return shared.ErrArtifactWrite.Wrap(err)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); !errors.Is(statErr, fs.ErrNotExist) {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
