package postgres

import (
	"context"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/models"
)

func (s *Store) CreateDocument(ctx context.Context, d models.Document) (models.Document, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (title, file_ref, date)
		VALUES ($1, $2, $3)
		RETURNING id
	`, d.Title, d.FileRef, d.Date).Scan(&d.ID)
	if err != nil {
		return models.Document{}, mapErr(err)
	}
	return d, nil
}

func (s *Store) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO events (title, description, date)
		VALUES ($1, $2, $3)
		RETURNING id
	`, e.Title, e.Description, e.Date).Scan(&e.ID)
	if err != nil {
		return models.Event{}, mapErr(err)
	}
	return e, nil
}

func (s *Store) CreateMessage(ctx context.Context, m models.Message) (models.Message, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, subject, body, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, m.SenderID, m.ReceiverID, m.Subject, m.Body, m.Date).Scan(&m.ID)
	if err != nil {
		return models.Message{}, mapErr(err)
	}
	return m, nil
}

func (s *Store) CreateMenu(ctx context.Context, m models.Menu) (models.Menu, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO menus (week, content)
		VALUES ($1, $2)
		RETURNING id
	`, m.Week, m.Content).Scan(&m.ID)
	if err != nil {
		return models.Menu{}, mapErr(err)
	}
	return m, nil
}
