package postgres

import (
	"context"
	"time"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/store"
)

func (s *Store) AppendNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, message, kind, read, created_at, link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, n.UserID, n.Message, n.Kind, n.Read, n.CreatedAt, n.Link).Scan(&n.ID)
	if err != nil {
		return models.Notification{}, mapErr(err)
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID *int64) ([]models.Notification, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	q := `
		SELECT id, user_id, message, kind, read, created_at, link
		FROM notifications
	`
	args := []any{}
	if userID != nil {
		q += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Kind, &n.Read, &n.CreatedAt, &n.Link); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead идемпотентна: повторный вызов ничего не меняет.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE user_id = $1 AND NOT read
	`, userID)
	return err
}

func (s *Store) PurgeReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE read AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
