package store

import (
	"context"
	"errors"
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrConflict    = errors.New("duplicate unique field")
	ErrReferential = errors.New("referenced record does not exist")
)

// Store — единый контракт персистентности для обоих бэкендов (Postgres и
// локальный in-memory). Оба обязаны выдавать уникальные, монотонно растущие
// id и одинаково проверять ссылочную целостность, чтобы общий
// конформанс-набор тестов проходил без оговорок.
type Store interface {
	// пользователи
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	ListParents(ctx context.Context) ([]models.User, error)
	// DeleteUser отклоняет удаление родителя, на которого ссылаются ученики:
	// политика «сначала переназначить», каскада нет.
	DeleteUser(ctx context.Context, id int64) error

	// ученики
	CreateStudent(ctx context.Context, s models.Student) (models.Student, error)
	GetStudent(ctx context.Context, id int64) (models.Student, error)
	ListActiveStudentsByClass(ctx context.Context, classLabel string) ([]models.Student, error)
	SetStudentArchived(ctx context.Context, id int64, archived bool) error

	// записи по ученику
	CreateGrade(ctx context.Context, g models.Grade) (models.Grade, error)
	CreateAttendance(ctx context.Context, a models.Attendance) (models.Attendance, error)
	ListAttendanceByStudent(ctx context.Context, studentID int64) ([]models.Attendance, error)
	// CountAbsences — количество записей с обоими вариантами отсутствия,
	// всегда пересчитывается по полной истории (см. правило порога).
	CountAbsences(ctx context.Context, studentID int64) (int, error)
	CreateObservation(ctx context.Context, o models.Observation) (models.Observation, error)

	// контент
	CreateDocument(ctx context.Context, d models.Document) (models.Document, error)
	CreateEvent(ctx context.Context, e models.Event) (models.Event, error)
	CreateMessage(ctx context.Context, m models.Message) (models.Message, error)
	CreateMenu(ctx context.Context, m models.Menu) (models.Menu, error)

	// расписание: замена всего набора строк класса одной операцией.
	// Сопоставление метки — без учёта регистра и крайних пробелов,
	// сохраняется каноническая метка вызывающего. Частичный результат
	// недопустим: при ошибке набор класса остаётся прежним.
	ReplaceTimetableForClass(ctx context.Context, classLabel string, entries []models.TimetableEntry) ([]models.TimetableEntry, error)
	ListTimetableByClass(ctx context.Context, classLabel string) ([]models.TimetableEntry, error)

	// журнал уведомлений
	AppendNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	// ListNotifications: nil userID — все записи (админ), иначе — одного
	// пользователя. Порядок — новые сверху (created_at DESC, id DESC).
	ListNotifications(ctx context.Context, userID *int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) error
	PurgeReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}
