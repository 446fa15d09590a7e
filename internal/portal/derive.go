package portal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/observability"
)

// Идентификаторы экранов, на которые ведёт уведомление.
const (
	linkSuivi        = "suivi"
	linkObservations = "observations"
	linkMessages     = "messages"
	linkDocuments    = "documents"
	linkEvents       = "evenements"
	linkTimetable    = "emploi-du-temps"
)

// append дописывает кортежи в журнал. Каждая запись атомарна сама по себе;
// частичная рассылка допустима — сущность уже зафиксирована, откатов нет.
func (s *Service) append(ctx context.Context, kind string, ns []models.Notification) {
	now := time.Now().UTC()
	for _, n := range ns {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		if _, err := s.store.AppendNotification(ctx, n); err != nil {
			s.derivationFailed(kind, err)
			continue
		}
		metrics.NotificationsEmitted.WithLabelValues(kind).Inc()
	}
}

func (s *Service) derivationFailed(op string, err error) {
	metrics.DerivationErrors.Inc()
	observability.CaptureOpErr(op, err)
	s.log.Warnw("деривация уведомлений не удалась", "op", op, "err", err)
}

// resolveParent — ученик и его родитель для адресной деривации.
// Любой сбой резолюции даёт ноль уведомлений: запись уже зафиксирована,
// отменять её из-за побочного канала нельзя.
func (s *Service) resolveParent(ctx context.Context, studentID int64, op string) (models.Student, models.User, bool) {
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		s.derivationFailed(op, fmt.Errorf("student %d: %w", studentID, err))
		return models.Student{}, models.User{}, false
	}
	parent, err := s.store.GetUser(ctx, st.ParentID)
	if err != nil {
		s.derivationFailed(op, fmt.Errorf("parent %d: %w", st.ParentID, err))
		return models.Student{}, models.User{}, false
	}
	return st, parent, true
}

func (s *Service) deriveGrade(ctx context.Context, g models.Grade) {
	st, parent, ok := s.resolveParent(ctx, g.StudentID, "grade")
	if !ok {
		return
	}
	s.append(ctx, "grade", []models.Notification{{
		UserID:  parent.ID,
		Message: fmt.Sprintf("Nouvelle note en %s pour %s : %s/20", g.Subject, st.FullName(), formatScore(g.Score)),
		Kind:    models.KindInfo,
		Link:    linkSuivi,
	}})
}

func (s *Service) deriveObservation(ctx context.Context, o models.Observation) {
	st, parent, ok := s.resolveParent(ctx, o.StudentID, "observation")
	if !ok {
		return
	}
	s.append(ctx, "observation", []models.Notification{{
		UserID:  parent.ID,
		Message: fmt.Sprintf("Nouvelle observation pour %s", st.FullName()),
		Kind:    models.KindInfo,
		Link:    linkObservations,
	}})
}

func (s *Service) deriveMessage(ctx context.Context, m models.Message) {
	sender, err := s.store.GetUser(ctx, m.SenderID)
	if err != nil {
		s.derivationFailed("message", fmt.Errorf("sender %d: %w", m.SenderID, err))
		return
	}
	// адресно получателю, не рассылка
	s.append(ctx, "message", []models.Notification{{
		UserID:  m.ReceiverID,
		Message: fmt.Sprintf("Nouveau message de %s", sender.Name),
		Kind:    models.KindInfo,
		Link:    linkMessages,
	}})
}

// broadcastParents — веер: по одной записи на каждого родителя.
func (s *Service) broadcastParents(ctx context.Context, kind, message, link string) {
	parents, err := s.store.ListParents(ctx)
	if err != nil {
		s.derivationFailed(kind, err)
		return
	}
	ns := make([]models.Notification, 0, len(parents))
	for _, p := range parents {
		ns = append(ns, models.Notification{
			UserID:  p.ID,
			Message: message,
			Kind:    models.KindInfo,
			Link:    link,
		})
	}
	s.append(ctx, kind, ns)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
