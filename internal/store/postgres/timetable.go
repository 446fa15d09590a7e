package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/models"
)

// ReplaceTimetableForClass — транзакционная замена всего набора строк класса.
// Advisory-замок по нормализованной метке сериализует конкурентные замены
// одного класса; разные классы друг друга не блокируют.
func (s *Store) ReplaceTimetableForClass(ctx context.Context, classLabel string, entries []models.TimetableEntry) ([]models.TimetableEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	norm := models.NormalizeClass(classLabel)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, norm); err != nil {
		return nil, fmt.Errorf("timetable lock %q: %w", norm, err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM timetable_entries
		WHERE lower(btrim(class_label)) = $1
	`, norm); err != nil {
		return nil, fmt.Errorf("timetable delete %q: %w", norm, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timetable_entries (day, time_range, subject, teacher, class_label)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stmt.Close() }()

	out := make([]models.TimetableEntry, 0, len(entries))
	for _, e := range entries {
		e.ClassLabel = classLabel // каноническая метка — от вызывающего
		if err := stmt.QueryRowContext(ctx, e.Day, e.TimeRange, e.Subject, e.Teacher, e.ClassLabel).Scan(&e.ID); err != nil {
			return nil, fmt.Errorf("timetable insert %q: %w", norm, mapErr(err))
		}
		out = append(out, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListTimetableByClass(ctx context.Context, classLabel string) ([]models.TimetableEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day, time_range, subject, teacher, class_label
		FROM timetable_entries
		WHERE lower(btrim(class_label)) = lower(btrim($1))
		ORDER BY id
	`, classLabel)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.TimetableEntry, 0)
	for rows.Next() {
		var e models.TimetableEntry
		if err := rows.Scan(&e.ID, &e.Day, &e.TimeRange, &e.Subject, &e.Teacher, &e.ClassLabel); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
