package portal

import (
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

// Входные формы операций записи. Проверяются валидатором до любого
// обращения к хранилищу: при ошибке ничего не персистится.

type NewUser struct {
	Name  string      `validate:"required"`
	Email string      `validate:"required,email"`
	Role  models.Role `validate:"required"`
	Phone string
}

type NewStudent struct {
	FirstName  string    `validate:"required"`
	LastName   string    `validate:"required"`
	BirthDate  time.Time `validate:"required"`
	ClassLabel string    `validate:"required"`
	ParentID   int64     `validate:"required,gt=0"`
	PhotoRef   *string
}

type NewGrade struct {
	StudentID   int64   `validate:"required,gt=0"`
	Subject     string  `validate:"required"`
	Score       float64 `validate:"gte=0,lte=20"`
	Coefficient float64 `validate:"required,gt=0"`
	Period      string
	Date        time.Time `validate:"required"`
}

type NewAttendance struct {
	StudentID     int64                   `validate:"required,gt=0"`
	Date          time.Time               `validate:"required"`
	Status        models.AttendanceStatus `validate:"required"`
	Justification *string
}

type NewObservation struct {
	StudentID int64     `validate:"required,gt=0"`
	Date      time.Time `validate:"required"`
	Text      string    `validate:"required"`
	Author    string
}

type NewDocument struct {
	Title   string `validate:"required"`
	FileRef string
	Date    time.Time `validate:"required"`
}

type NewEvent struct {
	Title       string `validate:"required"`
	Description string
	Date        time.Time `validate:"required"`
}

type NewMessage struct {
	SenderID   int64 `validate:"required,gt=0"`
	ReceiverID int64 `validate:"required,gt=0"`
	Subject    string
	Body       string `validate:"required"`
}

type NewMenu struct {
	Week    string `validate:"required"`
	Content string `validate:"required"`
}

// TimetableDraft — строка нового расписания без id; id выдаёт хранилище,
// временные клиентские id не переживают замену.
type TimetableDraft struct {
	Day       models.Weekday `validate:"required"`
	TimeRange string         `validate:"required"`
	Subject   string         `validate:"required"`
	Teacher   string
}
