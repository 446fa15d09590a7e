package models

import (
	"strings"
	"time"
)

type Student struct {
	ID         int64     `db:"id"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	BirthDate  time.Time `db:"birth_date"`
	ClassLabel string    `db:"class_label"` // свободный текст, сравнение — через NormalizeClass
	ParentID   int64     `db:"parent_id"`
	Archived   bool      `db:"archived"`
	PhotoRef   *string   `db:"photo_ref"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// NormalizeClass — канонизация метки класса для сравнения ("CP " == "cp").
// В хранилище метка остаётся такой, какой её передал вызывающий.
func NormalizeClass(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
