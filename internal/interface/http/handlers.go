package http

import (
	"net/http"
	"strconv"

	"github.com/alem-hub/exam-schedule-hub/internal/application/query"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
	"github.com/alem-hub/exam-schedule-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Exam Schedule Hub API",
		"version": s.config.Version,
		"dataset": s.deps.DatasetVersion,
		"endpoints": map[string]string{
			"health":   "/health",
			"search":   "/api/v1/students?q={query}&limit={n}",
			"student":  "/api/v1/students/{rollNo}",
			"calendar": "/api/v1/students/{rollNo}/calendar.ics",
			"stats":    "/api/v1/stats",
		},
	})
}

// handleHealth answers 503 only when a critical check fails; a degraded
// cache still reports 200 with the failing check listed.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": s.config.Version,
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleSearchStudents handles GET /api/v1/students?q=&limit=
func (s *Server) handleSearchStudents(w http.ResponseWriter, r *http.Request) {
	if s.deps.SearchStudentsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Search handler not configured")
		return
	}

	q := query.SearchStudentsQuery{
		Query: r.URL.Query().Get("q"),
		Limit: getQueryParamInt(r, "limit", s.config.DefaultSearchLimit),
	}

	result, err := s.deps.SearchStudentsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Students, &ResponseMeta{
		TotalCount: result.Total,
		Limit:      result.Limit,
		HasMore:    result.Total > len(result.Students),
		Cached:     result.Cached,
	})
}

// handleGetStudent handles GET /api/v1/students/{rollNo}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStudentHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student handler not configured")
		return
	}

	view, err := s.deps.GetStudentHandler.Handle(r.Context(), query.GetStudentQuery{
		RollNo: r.PathValue("rollNo"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleExportCalendar handles GET /api/v1/students/{rollNo}/calendar.ics
func (s *Server) handleExportCalendar(w http.ResponseWriter, r *http.Request) {
	if s.deps.ExportCalendarHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Calendar handler not configured")
		return
	}

	file, err := s.deps.ExportCalendarHandler.Handle(r.Context(), query.ExportCalendarQuery{
		RollNo: r.PathValue("rollNo"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	w.Header().Set("X-Calendar-Events", strconv.Itoa(file.Events))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(file.Body))
}

// handleGetStats handles GET /api/v1/stats
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStatsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Stats handler not configured")
		return
	}

	stats, err := s.deps.GetStatsHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		logger.FromContext(r.Context()).Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
