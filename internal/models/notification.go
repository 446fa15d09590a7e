package models

import "time"

type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindInfo    NotificationKind = "info"
)

// Notification — запись журнала уведомлений. Журнал append-only:
// единственные допустимые мутации — пометка прочитанным (одной записи
// или всех записей пользователя).
type Notification struct {
	ID        int64            `db:"id"`
	UserID    int64            `db:"user_id"`
	Message   string           `db:"message"`
	Kind      NotificationKind `db:"kind"`
	Read      bool             `db:"read"`
	CreatedAt time.Time        `db:"created_at"`
	Link      string           `db:"link"` // идентификатор экрана ("suivi", "messages", ...)
}
