package portal

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
)

// ReplaceTimetableForClass — единственная точка входа для замены расписания.
// Набор строк класса меняется целиком: либо новый набор, либо прежний,
// смешанного состояния снаружи не видно. Конкурентные замены одного класса
// сериализуются по нормализованной метке; разные классы идут параллельно.
func (s *Service) ReplaceTimetableForClass(ctx context.Context, classLabel string, drafts []TimetableDraft) ([]models.TimetableEntry, error) {
	if strings.TrimSpace(classLabel) == "" {
		return nil, fmt.Errorf("%w: empty class label", ErrValidation)
	}
	entries := make([]models.TimetableEntry, 0, len(drafts))
	for i, d := range drafts {
		if err := s.check(d); err != nil {
			return nil, err
		}
		if !d.Day.Valid() {
			return nil, fmt.Errorf("%w: day %q (entry %d)", ErrValidation, d.Day, i)
		}
		entries = append(entries, models.TimetableEntry{
			Day:       d.Day,
			TimeRange: d.TimeRange,
			Subject:   d.Subject,
			Teacher:   d.Teacher,
		})
	}

	unlock := s.classes.lock(models.NormalizeClass(classLabel))
	defer unlock()

	stored, err := s.store.ReplaceTimetableForClass(ctx, classLabel, entries)
	if err != nil {
		// откат полный, частичного эффекта нет
		return nil, err
	}
	metrics.EntityWrites.WithLabelValues("timetable").Inc()

	s.deriveTimetable(ctx, classLabel)
	return stored, nil
}

// deriveTimetable — одно уведомление на родителя за операцию замены,
// сколько бы строк ни поменялось. Родители считаются по активным ученикам
// класса, дубликаты (несколько детей в одном классе) схлопываются.
func (s *Service) deriveTimetable(ctx context.Context, classLabel string) {
	students, err := s.store.ListActiveStudentsByClass(ctx, classLabel)
	if err != nil {
		s.derivationFailed("timetable", err)
		return
	}
	msg := fmt.Sprintf("L'emploi du temps de la classe %s a été mis à jour", strings.TrimSpace(classLabel))
	seen := make(map[int64]bool, len(students))
	ns := make([]models.Notification, 0, len(students))
	for _, st := range students {
		if seen[st.ParentID] {
			continue
		}
		seen[st.ParentID] = true
		ns = append(ns, models.Notification{
			UserID:  st.ParentID,
			Message: msg,
			Kind:    models.KindInfo,
			Link:    linkTimetable,
		})
	}
	s.append(ctx, "timetable", ns)
}

// ListTimetableForClass — чтение для экранов расписания.
func (s *Service) ListTimetableForClass(ctx context.Context, classLabel string) ([]models.TimetableEntry, error) {
	return s.store.ListTimetableByClass(ctx, classLabel)
}
