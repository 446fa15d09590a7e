package portal

import (
	"context"

	"github.com/Spok95/school-portal/internal/models"
)

// ListNotifications: nil userID — весь журнал (админ), иначе — записи одного
// пользователя. Порядок всегда новые сверху.
func (s *Service) ListNotifications(ctx context.Context, userID *int64) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

func (s *Service) MarkNotificationRead(ctx context.Context, id int64) error {
	return s.store.MarkNotificationRead(ctx, id)
}

// MarkAllRead идемпотентна: повторный вызов оставляет то же состояние.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
