package query

import (
	"context"
	"strings"

	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
)

// GetStudentQuery looks a student up by roll number.
type GetStudentQuery struct {
	RollNo string
}

// GetStudentHandler handles GetStudentQuery.
type GetStudentHandler struct {
	data *Dataset
}

// NewGetStudentHandler creates a handler.
func NewGetStudentHandler(data *Dataset) *GetStudentHandler {
	return &GetStudentHandler{data: data}
}

// Handle returns the student or shared.ErrStudentNotFound.
func (h *GetStudentHandler) Handle(ctx context.Context, q GetStudentQuery) (*StudentView, error) {
	roll := strings.TrimSpace(q.RollNo)
	if roll == "" {
		return nil, shared.ErrInvalidRollNumber
	}
	rec, ok := h.data.Get(roll)
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	view := NewStudentView(rec)
	return &view, nil
}
