package portal

import (
	"context"

	"github.com/Spok95/school-portal/internal/models"
)

// AttendanceRecap — ученик и вся его история посещаемости для выгрузки.
func (s *Service) AttendanceRecap(ctx context.Context, studentID int64) (models.Student, []models.Attendance, error) {
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return models.Student{}, nil, err
	}
	rows, err := s.store.ListAttendanceByStudent(ctx, studentID)
	if err != nil {
		return models.Student{}, nil, err
	}
	return st, rows, nil
}
