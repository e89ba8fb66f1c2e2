package csvsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
)

// ReadLines reads the whole file and returns its non-blank lines.
// A UTF-8 byte order mark is dropped and CRLF/CR line endings are normalized
// to LF before splitting. The file is closed before ReadLines returns.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, shared.ErrSourceUnreadable.Wrap(err)
	}
	defer f.Close()

	lines, err := SplitLines(f)
	if err != nil {
		return nil, shared.ErrSourceUnreadable.Wrap(fmt.Errorf("%s: %w", path, err))
	}
	return lines, nil
}

// SplitLines reads r to the end and returns its non-blank lines.
func SplitLines(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, err
	}

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))

	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// ReadRows reads a file and tokenizes its non-blank lines.
func ReadRows(path string) ([]schedule.Row, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	return TokenizeAll(lines), nil
}

// Paths names the three input files.
type Paths struct {
	Roster    string
	Theory    string
	Practical string
}

// Reader serves the three inputs from disk.
type Reader struct {
	paths Paths
}

var _ schedule.SourceRepository = (*Reader)(nil)

// NewReader creates a Reader for the given paths.
func NewReader(p Paths) *Reader {
	return &Reader{paths: p}
}

// Rows implements schedule.SourceRepository.
func (r *Reader) Rows(ctx context.Context, src schedule.Source) ([]schedule.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var path string
	switch src {
	case schedule.SourceRoster:
		path = r.paths.Roster
	case schedule.SourceTheory:
		path = r.paths.Theory
	case schedule.SourcePractical:
		path = r.paths.Practical
	default:
		return nil, shared.ErrInvalidInput
	}

	rows, err := ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return rows, nil
}
