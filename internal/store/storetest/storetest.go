// Package storetest — общий конформанс-набор для обоих бэкендов хранилища.
// Оба обязаны проходить его без оговорок: одинаковые сентинели, одинаковые
// проверки ссылок, одинаковая семантика замены расписания и журнала.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/store"
)

// Factory выдаёт чистое хранилище для очередного саб-теста.
// Закрывает его вызывающая сторона, не набор.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, open Factory) {
	t.Run("IDsMonotonic", func(t *testing.T) { testIDsMonotonic(t, open(t)) })
	t.Run("EmailUniqueCaseInsensitive", func(t *testing.T) { testEmailUnique(t, open(t)) })
	t.Run("ReferentialChecks", func(t *testing.T) { testReferential(t, open(t)) })
	t.Run("ParentDeleteBlocked", func(t *testing.T) { testParentDelete(t, open(t)) })
	t.Run("CountAbsences", func(t *testing.T) { testCountAbsences(t, open(t)) })
	t.Run("TimetableReplaceCaseFold", func(t *testing.T) { testTimetableCaseFold(t, open(t)) })
	t.Run("TimetableReplaceEmptySet", func(t *testing.T) { testTimetableEmptySet(t, open(t)) })
	t.Run("LedgerOrdering", func(t *testing.T) { testLedgerOrdering(t, open(t)) })
	t.Run("MarkAllReadIdempotent", func(t *testing.T) { testMarkAllRead(t, open(t)) })
}

func seedParent(t *testing.T, st store.Store, email string) models.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), models.User{
		Name: "Parent " + email, Email: email, Role: models.Parent,
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func seedStudent(t *testing.T, st store.Store, parentID int64, class string) models.Student {
	t.Helper()
	s, err := st.CreateStudent(context.Background(), models.Student{
		FirstName: "Élève", LastName: fmt.Sprintf("n%d", parentID),
		BirthDate:  time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
		ClassLabel: class, ParentID: parentID,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func entry(day models.Weekday, rng, subject string) models.TimetableEntry {
	return models.TimetableEntry{Day: day, TimeRange: rng, Subject: subject, Teacher: "M. Martin"}
}

func testIDsMonotonic(t *testing.T, st store.Store) {
	ctx := context.Background()

	var prev int64
	for i := 0; i < 3; i++ {
		u, err := st.CreateUser(ctx, models.User{
			Name: "u", Email: fmt.Sprintf("u%d@ecole.fr", i), Role: models.Parent,
		})
		if err != nil {
			t.Fatal(err)
		}
		if u.ID <= prev {
			t.Fatalf("id не растёт: %d после %d", u.ID, prev)
		}
		prev = u.ID
	}

	parent := seedParent(t, st, "mono@ecole.fr")
	stu := seedStudent(t, st, parent.ID, "CP")
	prev = 0
	for i := 0; i < 3; i++ {
		g, err := st.CreateGrade(ctx, models.Grade{
			StudentID: stu.ID, Subject: "maths", Score: 12, Coefficient: 1,
			Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatal(err)
		}
		if g.ID <= prev {
			t.Fatalf("id оценки не растёт: %d после %d", g.ID, prev)
		}
		prev = g.ID
	}
}

func testEmailUnique(t *testing.T, st store.Store) {
	ctx := context.Background()
	if _, err := st.CreateUser(ctx, models.User{Name: "a", Email: "Dupont@Ecole.fr", Role: models.Parent}); err != nil {
		t.Fatal(err)
	}
	_, err := st.CreateUser(ctx, models.User{Name: "b", Email: "dupont@ecole.fr", Role: models.Parent})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("ожидали ErrConflict, получили %v", err)
	}
}

func testReferential(t *testing.T, st store.Store) {
	ctx := context.Background()

	// ученик без родителя
	_, err := st.CreateStudent(ctx, models.Student{
		FirstName: "x", LastName: "y",
		BirthDate: time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
		ClassLabel: "CP", ParentID: 999,
	})
	if !errors.Is(err, store.ErrReferential) {
		t.Fatalf("ожидали ErrReferential, получили %v", err)
	}

	// родителем может быть только parent
	admin, err := st.CreateUser(ctx, models.User{Name: "adm", Email: "adm@ecole.fr", Role: models.Admin})
	if err != nil {
		t.Fatal(err)
	}
	_, err = st.CreateStudent(ctx, models.Student{
		FirstName: "x", LastName: "y",
		BirthDate: time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
		ClassLabel: "CP", ParentID: admin.ID,
	})
	if !errors.Is(err, store.ErrReferential) {
		t.Fatalf("ожидали ErrReferential на роль, получили %v", err)
	}

	// оценка несуществующему ученику
	_, err = st.CreateGrade(ctx, models.Grade{
		StudentID: 999, Subject: "maths", Score: 10, Coefficient: 1,
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, store.ErrReferential) {
		t.Fatalf("ожидали ErrReferential на оценку, получили %v", err)
	}

	// уведомление несуществующему пользователю
	_, err = st.AppendNotification(ctx, models.Notification{UserID: 999, Message: "m", Kind: models.KindInfo})
	if !errors.Is(err, store.ErrReferential) {
		t.Fatalf("ожидали ErrReferential на уведомление, получили %v", err)
	}
}

func testParentDelete(t *testing.T, st store.Store) {
	ctx := context.Background()

	parent := seedParent(t, st, "pd@ecole.fr")
	seedStudent(t, st, parent.ID, "CE1")

	// политика «сначала переназначить»: каскада нет
	if err := st.DeleteUser(ctx, parent.ID); !errors.Is(err, store.ErrReferential) {
		t.Fatalf("ожидали ErrReferential, получили %v", err)
	}

	lone := seedParent(t, st, "lone@ecole.fr")
	if err := st.DeleteUser(ctx, lone.ID); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteUser(ctx, lone.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}

func testCountAbsences(t *testing.T, st store.Store) {
	ctx := context.Background()
	parent := seedParent(t, st, "ca@ecole.fr")
	stu := seedStudent(t, st, parent.ID, "CP")

	statuses := []models.AttendanceStatus{
		models.StatusPresent,
		models.StatusAbsentUnjustified,
		models.StatusLate,
		models.StatusAbsentJustified,
		models.StatusPresent,
	}
	for i, status := range statuses {
		_, err := st.CreateAttendance(ctx, models.Attendance{
			StudentID: stu.ID,
			Date:      time.Date(2026, 3, 2+i, 0, 0, 0, 0, time.UTC),
			Status:    status,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	n, err := st.CountAbsences(ctx, stu.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("ожидали 2 отсутствия, получили %d", n)
	}
}

func testTimetableCaseFold(t *testing.T, st store.Store) {
	ctx := context.Background()

	first, err := st.ReplaceTimetableForClass(ctx, "CP ", []models.TimetableEntry{
		entry(models.Monday, "08:30-09:30", "maths"),
		entry(models.Tuesday, "08:30-09:30", "français"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 {
		t.Fatalf("ожидали 2 строки, получили %d", len(first))
	}

	second, err := st.ReplaceTimetableForClass(ctx, "cp", []models.TimetableEntry{
		entry(models.Friday, "10:00-11:00", "sport"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 {
		t.Fatalf("ожидали 1 строку, получили %d", len(second))
	}
	// свежие id, клиентские не переживают замену
	if second[0].ID == first[0].ID || second[0].ID == first[1].ID {
		t.Fatalf("id не обновился: %+v", second)
	}
	// каноническая метка — от второго вызова
	if second[0].ClassLabel != "cp" {
		t.Fatalf("ожидали метку %q, получили %q", "cp", second[0].ClassLabel)
	}

	got, err := st.ListTimetableByClass(ctx, "CP")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Subject != "sport" {
		t.Fatalf("остатки старого набора: %+v", got)
	}
}

func testTimetableEmptySet(t *testing.T, st store.Store) {
	ctx := context.Background()

	if _, err := st.ReplaceTimetableForClass(ctx, "CE1", []models.TimetableEntry{
		entry(models.Monday, "08:30-09:30", "maths"),
	}); err != nil {
		t.Fatal(err)
	}
	out, err := st.ReplaceTimetableForClass(ctx, "CE1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("ожидали пустой набор, получили %d", len(out))
	}
	got, err := st.ListTimetableByClass(ctx, "CE1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("строки не удалены: %+v", got)
	}
}

func testLedgerOrdering(t *testing.T, st store.Store) {
	ctx := context.Background()
	alice := seedParent(t, st, "alice@ecole.fr")
	bob := seedParent(t, st, "bob@ecole.fr")

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	// чередуем пользователей, чтобы проверить независимость порядка
	for i := 0; i < 3; i++ {
		for _, u := range []models.User{alice, bob} {
			_, err := st.AppendNotification(ctx, models.Notification{
				UserID:    u.ID,
				Message:   fmt.Sprintf("n%d", i),
				Kind:      models.KindInfo,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			})
			if err != nil {
				t.Fatal(err)
			}
		}
	}

	ns, err := st.ListNotifications(ctx, &alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 3 {
		t.Fatalf("ожидали 3 записи, получили %d", len(ns))
	}
	for i := 1; i < len(ns); i++ {
		if ns[i].CreatedAt.After(ns[i-1].CreatedAt) {
			t.Fatalf("порядок не новые-сверху: %v затем %v", ns[i-1].CreatedAt, ns[i].CreatedAt)
		}
		if ns[i].UserID != alice.ID {
			t.Fatalf("чужая запись в выборке: %+v", ns[i])
		}
	}

	all, err := st.ListNotifications(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 6 {
		t.Fatalf("ожидали 6 записей всего, получили %d", len(all))
	}
}

func testMarkAllRead(t *testing.T, st store.Store) {
	ctx := context.Background()
	parent := seedParent(t, st, "mar@ecole.fr")

	for i := 0; i < 3; i++ {
		if _, err := st.AppendNotification(ctx, models.Notification{
			UserID: parent.ID, Message: "m", Kind: models.KindInfo,
		}); err != nil {
			t.Fatal(err)
		}
	}

	check := func() {
		t.Helper()
		ns, err := st.ListNotifications(ctx, &parent.ID)
		if err != nil {
			t.Fatal(err)
		}
		for _, n := range ns {
			if !n.Read {
				t.Fatalf("непрочитанная запись после MarkAll: %+v", n)
			}
		}
	}

	if err := st.MarkAllNotificationsRead(ctx, parent.ID); err != nil {
		t.Fatal(err)
	}
	check()
	// идемпотентность
	if err := st.MarkAllNotificationsRead(ctx, parent.ID); err != nil {
		t.Fatal(err)
	}
	check()
}
