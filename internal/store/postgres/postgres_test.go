//go:build testutil
// +build testutil

package postgres_test

import (
	"context"
	"testing"

	"github.com/Spok95/school-portal/internal/store"
	"github.com/Spok95/school-portal/internal/store/postgres"
	"github.com/Spok95/school-portal/internal/store/storetest"
	"github.com/Spok95/school-portal/internal/testutil/testdb"
)

// Один контейнер на весь набор, между саб-тестами чистим данные.
// Sequences сбрасываем вместе с таблицами: монотонность проверяется
// внутри одного саб-теста.
func TestConformance(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatalf("тестовая БД: %v", err)
	}
	defer h.Close()

	st := postgres.New(h.DB)

	storetest.Run(t, func(t *testing.T) store.Store {
		_, err := h.DB.Exec(`TRUNCATE users, students, grades, attendance, observations,
			documents, events, messages, menus, timetable_entries, notifications
			RESTART IDENTITY CASCADE`)
		if err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return st
	})
}
