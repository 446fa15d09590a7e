package postgres

import (
	"context"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/models"
)

func (s *Store) CreateGrade(ctx context.Context, g models.Grade) (models.Grade, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO grades (student_id, subject, score, coefficient, period, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, g.StudentID, g.Subject, g.Score, g.Coefficient, g.Period, g.Date).Scan(&g.ID)
	if err != nil {
		return models.Grade{}, mapErr(err)
	}
	return g, nil
}

func (s *Store) CreateAttendance(ctx context.Context, a models.Attendance) (models.Attendance, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO attendance (student_id, date, status, justification)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, a.StudentID, a.Date, a.Status, a.Justification).Scan(&a.ID)
	if err != nil {
		return models.Attendance{}, mapErr(err)
	}
	return a, nil
}

func (s *Store) ListAttendanceByStudent(ctx context.Context, studentID int64) ([]models.Attendance, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_id, date, status, justification
		FROM attendance
		WHERE student_id = $1
		ORDER BY id
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Attendance, 0)
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Date, &a.Status, &a.Justification); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountAbsences — всегда полный пересчёт по истории, бегущего счётчика нет:
// так корректность переживает удаления и правки записей.
func (s *Store) CountAbsences(ctx context.Context, studentID int64) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT count(*)
		FROM attendance
		WHERE student_id = $1
		  AND status IN ('absent-unjustified', 'absent-justified')
	`, studentID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) CreateObservation(ctx context.Context, o models.Observation) (models.Observation, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO observations (student_id, date, text, author)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, o.StudentID, o.Date, o.Text, o.Author).Scan(&o.ID)
	if err != nil {
		return models.Observation{}, mapErr(err)
	}
	return o, nil
}
