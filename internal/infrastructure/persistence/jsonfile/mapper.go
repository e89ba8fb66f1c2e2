package jsonfile

import (
	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
)

// ToDTOs converts registry records to the artifact shape, preserving order.
func ToDTOs(records []*schedule.StudentRecord) []StudentDTO {
	out := make([]StudentDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, ToDTO(rec))
	}
	return out
}

// ToDTO converts one record.
func ToDTO(rec *schedule.StudentRecord) StudentDTO {
	dto := StudentDTO{
		RollNo:    rec.RollNo.String(),
		Name:      rec.Name,
		Theory:    make([]TheoryDTO, 0, len(rec.Theory)),
		Practical: make([]PracticalDTO, 0, len(rec.Practical)),
	}
	for _, e := range rec.Theory {
		dto.Theory = append(dto.Theory, TheoryDTO{
			Date:     e.Date,
			Subject:  e.Subject,
			Time:     e.Time,
			Location: e.Location,
			Type:     string(e.Kind()),
		})
	}
	for _, e := range rec.Practical {
		dto.Practical = append(dto.Practical, PracticalDTO{
			Date:      e.Date,
			Subject:   e.Subject,
			Panel:     e.Panel,
			Time:      e.Time,
			Location:  e.Location,
			Type:      string(e.Kind()),
			Professor: e.Professor,
		})
	}
	return dto
}

// FromDTOs converts artifact records back to domain records.
func FromDTOs(dtos []StudentDTO) []*schedule.StudentRecord {
	out := make([]*schedule.StudentRecord, 0, len(dtos))
	for _, d := range dtos {
		rec := schedule.NewStudentRecord(d.RollNo, d.Name)
		for _, t := range d.Theory {
			rec.AddTheory(schedule.TheoryEntry{
				Date:     t.Date,
				Subject:  t.Subject,
				Time:     t.Time,
				Location: t.Location,
			})
		}
		for _, p := range d.Practical {
			rec.AddPractical(schedule.PracticalEntry{
				Date:      p.Date,
				Subject:   p.Subject,
				Panel:     p.Panel,
				Professor: p.Professor,
				Time:      p.Time,
				Location:  p.Location,
			})
		}
		out = append(out, rec)
	}
	return out
}
