package portal

import (
	"context"
	"fmt"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
)

// Правило порога отсутствий. Счёт всегда пересчитывается по полной истории
// после коммита новой записи, бегущее состояние не хранится. Повышенный
// алерт уходит только в момент точного равенства порогу: если счёт уже
// выше (порог снизили, батч-импорт) — алерт не повторяется, это намеренная
// защита от спама. Повторное пересечение после удаления записей срабатывает
// заново, поскольку счёт каждый раз свежий.
func (s *Service) deriveAttendance(ctx context.Context, a models.Attendance) {
	st, parent, ok := s.resolveParent(ctx, a.StudentID, "attendance")
	if !ok {
		return
	}

	out := []models.Notification{{
		UserID:  parent.ID,
		Message: s.attendanceMessage(st, a),
		Kind:    routineKind(a.Status),
		Link:    linkSuivi,
	}}

	// архивные ученики исключены из алертинга, но не из журнала
	if a.Status.IsAbsence() && !st.Archived {
		count, err := s.store.CountAbsences(ctx, a.StudentID)
		if err != nil {
			s.derivationFailed("attendance", err)
		} else if count == s.threshold {
			msg := fmt.Sprintf("Alerte : %s a atteint le seuil de %d absences", st.FullName(), s.threshold)
			out = append(out, models.Notification{
				UserID:  parent.ID,
				Message: msg,
				Kind:    models.KindError,
				Link:    linkSuivi,
			})
			metrics.ThresholdAlerts.Inc()
			s.push.Alert(msg) // best-effort, админам
		}
	}

	s.append(ctx, "attendance", out)
}

func routineKind(status models.AttendanceStatus) models.NotificationKind {
	if status.IsAbsence() {
		return models.KindError
	}
	return models.KindInfo
}

// Даты в текстах — в школьной зоне (TZ из конфига), не в зоне записи.
func (s *Service) attendanceMessage(st models.Student, a models.Attendance) string {
	date := a.Date.In(s.loc).Format("02/01/2006")
	switch a.Status {
	case models.StatusAbsentUnjustified:
		return fmt.Sprintf("Absence non justifiée de %s le %s", st.FullName(), date)
	case models.StatusAbsentJustified:
		return fmt.Sprintf("Absence justifiée de %s le %s", st.FullName(), date)
	case models.StatusLate:
		return fmt.Sprintf("Retard de %s le %s", st.FullName(), date)
	default:
		return fmt.Sprintf("Présence de %s enregistrée le %s", st.FullName(), date)
	}
}
