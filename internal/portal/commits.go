package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
)

// Операции коммита уведомляемых сущностей. Инвариант общий: сначала
// долговечный коммит записи, затем деривация уведомлений. Сбой деривации
// записывается (лог, Sentry, счётчик) и проглатывается — успех операции
// определяется успехом коммита сущности.

func (s *Service) CreateGrade(ctx context.Context, in NewGrade) (models.Grade, error) {
	if err := s.check(in); err != nil {
		return models.Grade{}, err
	}
	g, err := s.store.CreateGrade(ctx, models.Grade{
		StudentID:   in.StudentID,
		Subject:     in.Subject,
		Score:       in.Score,
		Coefficient: in.Coefficient,
		Period:      in.Period,
		Date:        in.Date,
	})
	if err != nil {
		return models.Grade{}, err
	}
	metrics.EntityWrites.WithLabelValues("grade").Inc()
	s.deriveGrade(ctx, g)
	return g, nil
}

func (s *Service) CreateAttendance(ctx context.Context, in NewAttendance) (models.Attendance, error) {
	if err := s.check(in); err != nil {
		return models.Attendance{}, err
	}
	if !in.Status.Valid() {
		return models.Attendance{}, fmt.Errorf("%w: status %q", ErrValidation, in.Status)
	}
	a, err := s.store.CreateAttendance(ctx, models.Attendance{
		StudentID:     in.StudentID,
		Date:          in.Date,
		Status:        in.Status,
		Justification: in.Justification,
	})
	if err != nil {
		return models.Attendance{}, err
	}
	metrics.EntityWrites.WithLabelValues("attendance").Inc()
	s.deriveAttendance(ctx, a)
	return a, nil
}

func (s *Service) CreateObservation(ctx context.Context, in NewObservation) (models.Observation, error) {
	if err := s.check(in); err != nil {
		return models.Observation{}, err
	}
	o, err := s.store.CreateObservation(ctx, models.Observation{
		StudentID: in.StudentID,
		Date:      in.Date,
		Text:      in.Text,
		Author:    in.Author,
	})
	if err != nil {
		return models.Observation{}, err
	}
	metrics.EntityWrites.WithLabelValues("observation").Inc()
	s.deriveObservation(ctx, o)
	return o, nil
}

func (s *Service) CreateDocument(ctx context.Context, in NewDocument) (models.Document, error) {
	if err := s.check(in); err != nil {
		return models.Document{}, err
	}
	d, err := s.store.CreateDocument(ctx, models.Document{
		Title:   in.Title,
		FileRef: in.FileRef,
		Date:    in.Date,
	})
	if err != nil {
		return models.Document{}, err
	}
	metrics.EntityWrites.WithLabelValues("document").Inc()
	s.broadcastParents(ctx, "document",
		fmt.Sprintf("Nouveau document disponible : %s", d.Title), linkDocuments)
	return d, nil
}

func (s *Service) CreateEvent(ctx context.Context, in NewEvent) (models.Event, error) {
	if err := s.check(in); err != nil {
		return models.Event{}, err
	}
	e, err := s.store.CreateEvent(ctx, models.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
	})
	if err != nil {
		return models.Event{}, err
	}
	metrics.EntityWrites.WithLabelValues("event").Inc()
	s.broadcastParents(ctx, "event",
		fmt.Sprintf("Nouvel évènement : %s", e.Title), linkEvents)
	return e, nil
}

func (s *Service) CreateMessage(ctx context.Context, in NewMessage) (models.Message, error) {
	if err := s.check(in); err != nil {
		return models.Message{}, err
	}
	m, err := s.store.CreateMessage(ctx, models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Subject:    in.Subject,
		Body:       in.Body,
		Date:       time.Now().UTC(),
	})
	if err != nil {
		return models.Message{}, err
	}
	metrics.EntityWrites.WithLabelValues("message").Inc()
	s.deriveMessage(ctx, m)
	return m, nil
}

// CreateMenu — без деривации: меню читается по запросу, рассылки нет.
func (s *Service) CreateMenu(ctx context.Context, in NewMenu) (models.Menu, error) {
	if err := s.check(in); err != nil {
		return models.Menu{}, err
	}
	m, err := s.store.CreateMenu(ctx, models.Menu{Week: in.Week, Content: in.Content})
	if err != nil {
		return models.Menu{}, err
	}
	metrics.EntityWrites.WithLabelValues("menu").Inc()
	return m, nil
}
