package models

import "time"

type Grade struct {
	ID          int64     `db:"id"`
	StudentID   int64     `db:"student_id"`
	Subject     string    `db:"subject"`
	Score       float64   `db:"score"` // шкала 0–20
	Coefficient float64   `db:"coefficient"`
	Period      string    `db:"period"`
	Date        time.Time `db:"date"`
}

type AttendanceStatus string

const (
	StatusPresent           AttendanceStatus = "present"
	StatusAbsentUnjustified AttendanceStatus = "absent-unjustified"
	StatusAbsentJustified   AttendanceStatus = "absent-justified"
	StatusLate              AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsentUnjustified, StatusAbsentJustified, StatusLate:
		return true
	default:
		return false
	}
}

// IsAbsence — оба варианта отсутствия идут в накопительный счётчик порога.
func (s AttendanceStatus) IsAbsence() bool {
	return s == StatusAbsentUnjustified || s == StatusAbsentJustified
}

type Attendance struct {
	ID            int64            `db:"id"`
	StudentID     int64            `db:"student_id"`
	Date          time.Time        `db:"date"`
	Status        AttendanceStatus `db:"status"`
	Justification *string          `db:"justification"`
}

type Observation struct {
	ID        int64     `db:"id"`
	StudentID int64     `db:"student_id"`
	Date      time.Time `db:"date"`
	Text      string    `db:"text"`
	Author    string    `db:"author"`
}
