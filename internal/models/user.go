package models

type Role string

const (
	Admin  Role = "admin"
	Parent Role = "parent"
)

func (r Role) Valid() bool {
	return r == Admin || r == Parent
}

type User struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"` // уникален без учёта регистра
	Role  Role   `db:"role"`
	Phone string `db:"phone"`
}
