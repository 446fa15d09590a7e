package models

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	default:
		return false
	}
}

type TimetableEntry struct {
	ID         int64   `db:"id"`
	Day        Weekday `db:"day"`
	TimeRange  string  `db:"time_range"` // например "08:30-09:30"
	Subject    string  `db:"subject"`
	Teacher    string  `db:"teacher"`
	ClassLabel string  `db:"class_label"`
}
