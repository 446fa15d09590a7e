package portal_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/portal"
)

func draft(day models.Weekday, rng, subject string) portal.TimetableDraft {
	return portal.TimetableDraft{Day: day, TimeRange: rng, Subject: subject, Teacher: "M. Petit"}
}

func TestReplaceTimetable_OneNotificationPerParent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	twins := seedParent(t, svc, "jumeaux@ecole.fr")
	seedStudent(t, svc, twins.ID, "CP")
	seedStudent(t, svc, twins.ID, "CP") // второй ребёнок в том же классе

	single := seedParent(t, svc, "p2@ecole.fr")
	seedStudent(t, svc, single.ID, "CP")

	archivedParent := seedParent(t, svc, "arch@ecole.fr")
	arch := seedStudent(t, svc, archivedParent.ID, "CP")
	if err := svc.ArchiveStudent(ctx, arch.ID, true); err != nil {
		t.Fatal(err)
	}

	otherClass := seedParent(t, svc, "ce1@ecole.fr")
	seedStudent(t, svc, otherClass.ID, "CE1")

	_, err := svc.ReplaceTimetableForClass(ctx, "CP", []portal.TimetableDraft{
		draft(models.Monday, "08:30-09:30", "maths"),
		draft(models.Tuesday, "08:30-09:30", "français"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if ns := notifsFor(t, svc, twins.ID); len(ns) != 1 {
		t.Fatalf("дубликаты не схлопнуты: %+v", ns)
	}
	if ns := notifsFor(t, svc, single.ID); len(ns) != 1 || ns[0].Link != "emploi-du-temps" {
		t.Fatalf("ожидали 1 уведомление emploi-du-temps: %+v", ns)
	}
	if ns := notifsFor(t, svc, archivedParent.ID); len(ns) != 0 {
		t.Fatalf("родитель архивного ученика в рассылке: %+v", ns)
	}
	if ns := notifsFor(t, svc, otherClass.ID); len(ns) != 0 {
		t.Fatalf("чужой класс в рассылке: %+v", ns)
	}
}

func TestReplaceTimetable_CaseInsensitiveLabel(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.ReplaceTimetableForClass(ctx, "CP", []portal.TimetableDraft{
		draft(models.Monday, "08:30-09:30", "maths"),
		draft(models.Tuesday, "08:30-09:30", "français"),
	}); err != nil {
		t.Fatal(err)
	}
	// " cp " заменяет набор "CP", а не создаёт второй
	if _, err := svc.ReplaceTimetableForClass(ctx, " cp ", []portal.TimetableDraft{
		draft(models.Friday, "10:00-11:00", "sport"),
	}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ListTimetableForClass(ctx, "CP")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Subject != "sport" {
		t.Fatalf("старый набор пережил замену: %+v", got)
	}
}

func TestReplaceTimetable_EmptySetStillNotifies(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	parent := seedParent(t, svc, "p@ecole.fr")
	seedStudent(t, svc, parent.ID, "CE1")

	if _, err := svc.ReplaceTimetableForClass(ctx, "CE1", []portal.TimetableDraft{
		draft(models.Monday, "08:30-09:30", "maths"),
	}); err != nil {
		t.Fatal(err)
	}

	out, err := svc.ReplaceTimetableForClass(ctx, "CE1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("ожидали пустой набор: %+v", out)
	}
	got, err := svc.ListTimetableForClass(ctx, "CE1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("строки не удалены: %+v", got)
	}
	// обе замены уведомили родителя
	if ns := notifsFor(t, svc, parent.ID); len(ns) != 2 {
		t.Fatalf("ожидали 2 уведомления, получили %d", len(ns))
	}
}

func TestReplaceTimetable_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.ReplaceTimetableForClass(ctx, "   ", nil); !errors.Is(err, portal.ErrValidation) {
		t.Fatalf("пустая метка: ожидали ErrValidation, получили %v", err)
	}

	_, err := svc.ReplaceTimetableForClass(ctx, "CP", []portal.TimetableDraft{
		{Day: "dimanche", TimeRange: "08:30-09:30", Subject: "maths"},
	})
	if !errors.Is(err, portal.ErrValidation) {
		t.Fatalf("невалидный день: ожидали ErrValidation, получили %v", err)
	}
	got, lerr := svc.ListTimetableForClass(ctx, "CP")
	if lerr != nil {
		t.Fatal(lerr)
	}
	if len(got) != 0 {
		t.Fatalf("невалидная замена оставила строки: %+v", got)
	}
}

func TestReplaceTimetable_ConcurrentClasses(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	classes := []string{"CP", "CE1", "CE2", "CM1", "CM2"}
	var wg sync.WaitGroup
	errs := make(chan error, len(classes)*4)
	for i := 0; i < 4; i++ {
		for _, class := range classes {
			wg.Add(1)
			go func(i int, class string) {
				defer wg.Done()
				_, err := svc.ReplaceTimetableForClass(ctx, class, []portal.TimetableDraft{
					draft(models.Monday, "08:30-09:30", fmt.Sprintf("matière %d", i)),
				})
				if err != nil {
					errs <- fmt.Errorf("%s: %w", class, err)
				}
			}(i, class)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	// каждая метка закончила ровно одним набором из одной строки
	for _, class := range classes {
		got, err := svc.ListTimetableForClass(ctx, class)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("класс %s: ожидали 1 строку, получили %d", class, len(got))
		}
	}
}
