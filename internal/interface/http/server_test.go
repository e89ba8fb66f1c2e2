package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/exam-schedule-hub/internal/application/query"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/internal/interface/http/handlers"
	"github.com/alem-hub/exam-schedule-hub/pkg/logger"
)

type stubRenderer struct{}

func (stubRenderer) Render(rec *schedule.StudentRecord) (string, string, int) {
	return rec.RollNo.String() + "_exams.ics", "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", rec.ExamCount()
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	asha := schedule.NewStudentRecord("150096725001", "Asha Verma")
	asha.AddTheory(schedule.TheoryEntry{
		Date: "23rd December 2025", Subject: "Maths", Time: "10:00 AM - 01:00 PM", Location: "Hall A",
	})
	data := query.NewDataset(&schedule.Snapshot{
		Records: []*schedule.StudentRecord{
			asha,
			schedule.NewStudentRecord("150096725002", "Ashok Kumar"),
			schedule.NewStudentRecord("150096725003", "Meera Iyer"),
		},
		Digest: "feedfacecafebeef0000",
	}, time.Now())

	health := handlers.NewCompositeHealthChecker("test")
	health.AddCheck("dataset", handlers.NewDatasetCheck(data))

	s := NewServer(cfg, Dependencies{
		SearchStudentsHandler: query.NewSearchStudentsHandler(data, nil, 5, 50),
		GetStudentHandler:     query.NewGetStudentHandler(data),
		ExportCalendarHandler: query.NewExportCalendarHandler(data, stubRenderer{}, nil),
		GetStatsHandler:       query.NewGetStatsHandler(data),
		DatasetVersion:        data.Version(),
		Logger:                logger.Nop(),
		HealthChecker:         health,
	})
	t.Cleanup(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
	})
	return s
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	return cfg
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSearchStudents(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/students?q=ash&limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"feedfacecafebeef"`, rec.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	resp := decode(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.TotalCount)
	assert.Equal(t, 1, resp.Meta.Limit)
	assert.True(t, resp.Meta.HasMore)

	students, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, students, 1)
	assert.Equal(t, "150096725001", students[0].(map[string]any)["rollNo"])
}

func TestSearchStudents_ShortQueryIsEmpty(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/students?q=a", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	assert.Equal(t, []any{}, resp.Data)
}

func TestETagNotModified(t *testing.T) {
	s := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("If-None-Match", `W/"feedfacecafebeef"`)
	rec := do(t, s, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestGetStudent(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/students/150096725001", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, "Asha Verma", data["name"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/students/404404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestExportCalendar(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/students/150096725001/calendar.ics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="150096725001_exams.ics"`)
	assert.Equal(t, "1", rec.Header().Get("X-Calendar-Events"))
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestGetStats(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, float64(3), data["students"])
	assert.Equal(t, float64(2), data["withoutExams"])
}

func TestHealthAndProbes(t *testing.T) {
	s := newTestServer(t, testConfig())

	for _, path := range []string{"/health", "/healthz", "/ready", "/live", "/"} {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		if path != "/" {
			assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store", path)
		}
	}

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/students", nil)
	req.Header.Set("Origin", "https://exams.example")
	rec := do(t, s, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://exams.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "ETag")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	s := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer(t, testConfig())
	h := s.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
