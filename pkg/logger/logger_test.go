package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(buf *bytes.Buffer, format Format) *Logger {
	l := New(Options{Output: buf, Level: LevelInfo, Format: format})
	l.now = func() time.Time { return time.Date(2025, 12, 17, 10, 0, 0, 0, time.UTC) }
	return l
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, FormatJSON).With(Component("build"))

	l.Info("artifact written", Path("out.json"), Count("students", 3))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "artifact written", entry.Message)
	assert.Equal(t, "2025-12-17T10:00:00Z", entry.Timestamp)
	assert.Equal(t, "build", entry.Fields["component"])
	assert.Equal(t, "out.json", entry.Fields["path"])
	assert.Equal(t, float64(3), entry.Fields["students"])
	assert.Empty(t, entry.Caller)
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, FormatText)

	l.Warn("unmatched names", Count("count", 2), Err(errors.New("boom")))

	line := strings.TrimSpace(buf.String())
	assert.Equal(t, "2025-12-17T10:00:00Z WARN  unmatched names count=2 error=boom", line)
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, FormatText)

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.WithLevel(LevelDebug).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := fixedLogger(&buf, FormatText)
	_ = parent.With(RunID("abc"))

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "run_id")
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, FormatText, ParseFormat("TEXT"))
	assert.Equal(t, FormatJSON, ParseFormat("yaml"))
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, FormatText).WithRequestID("req-1")

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.NotNil(t, FromContext(context.Background()))
}
