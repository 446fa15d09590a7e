package portal_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/portal"
	"github.com/Spok95/school-portal/internal/store"
	"github.com/Spok95/school-portal/internal/store/memory"
)

func newService(t *testing.T) (*portal.Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return portal.New(st, zap.NewNop().Sugar(), portal.DefaultAbsenceThreshold, nil, nil), st
}

func seedParent(t *testing.T, svc *portal.Service, email string) models.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), portal.NewUser{
		Name: "Parent " + email, Email: email, Role: models.Parent,
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func seedStudent(t *testing.T, svc *portal.Service, parentID int64, class string) models.Student {
	t.Helper()
	s, err := svc.CreateStudent(context.Background(), portal.NewStudent{
		FirstName: "Léa", LastName: "Martin",
		BirthDate:  time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
		ClassLabel: class, ParentID: parentID,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func notifsFor(t *testing.T, svc *portal.Service, userID int64) []models.Notification {
	t.Helper()
	ns, err := svc.ListNotifications(context.Background(), &userID)
	if err != nil {
		t.Fatal(err)
	}
	return ns
}

func TestCreateUser_InvalidPayload(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := []portal.NewUser{
		{Name: "", Email: "a@ecole.fr", Role: models.Parent},
		{Name: "a", Email: "pas-un-email", Role: models.Parent},
		{Name: "a", Email: "a@ecole.fr", Role: "director"},
	}
	for i, in := range cases {
		if _, err := svc.CreateUser(ctx, in); !errors.Is(err, portal.ErrValidation) {
			t.Fatalf("case %d: ожидали ErrValidation, получили %v", i, err)
		}
	}
}

func TestCreateGrade_InvalidPayloadNothingPersisted(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	parent := seedParent(t, svc, "p@ecole.fr")
	stu := seedStudent(t, svc, parent.ID, "CP")

	_, err := svc.CreateGrade(ctx, portal.NewGrade{
		StudentID: stu.ID, Subject: "maths", Score: 25, Coefficient: 1,
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, portal.ErrValidation) {
		t.Fatalf("ожидали ErrValidation на score>20, получили %v", err)
	}
	if ns := notifsFor(t, svc, parent.ID); len(ns) != 0 {
		t.Fatalf("уведомления после невалидной записи: %+v", ns)
	}
}

func TestCreateAttendance_InvalidStatus(t *testing.T) {
	svc, _ := newService(t)
	parent := seedParent(t, svc, "p@ecole.fr")
	stu := seedStudent(t, svc, parent.ID, "CP")

	_, err := svc.CreateAttendance(context.Background(), portal.NewAttendance{
		StudentID: stu.ID,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    "vacances",
	})
	if !errors.Is(err, portal.ErrValidation) {
		t.Fatalf("ожидали ErrValidation, получили %v", err)
	}
}

// appendFail ломает только журнал: коммит сущности обязан пережить
// сбой деривации.
type appendFail struct {
	store.Store
}

func (appendFail) AppendNotification(context.Context, models.Notification) (models.Notification, error) {
	return models.Notification{}, errors.New("ledger down")
}

func TestDerivationFailure_CommitSurvives(t *testing.T) {
	mem := memory.New()
	svc := portal.New(appendFail{Store: mem}, zap.NewNop().Sugar(), portal.DefaultAbsenceThreshold, nil, nil)
	ctx := context.Background()

	parent, err := svc.CreateUser(ctx, portal.NewUser{Name: "p", Email: "p@ecole.fr", Role: models.Parent})
	if err != nil {
		t.Fatal(err)
	}
	stu, err := svc.CreateStudent(ctx, portal.NewStudent{
		FirstName: "Léa", LastName: "Martin",
		BirthDate:  time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
		ClassLabel: "CP", ParentID: parent.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	g, err := svc.CreateGrade(ctx, portal.NewGrade{
		StudentID: stu.ID, Subject: "maths", Score: 14, Coefficient: 1,
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("коммит не должен падать из-за журнала: %v", err)
	}
	if g.ID == 0 {
		t.Fatal("оценка без id")
	}
}

// studentGone ломает резолюцию адресата: сам коммит записи проходит.
type studentGone struct {
	store.Store
}

func (studentGone) GetStudent(context.Context, int64) (models.Student, error) {
	return models.Student{}, store.ErrNotFound
}

func TestResolutionFailure_ZeroNotifications(t *testing.T) {
	mem := memory.New()
	svc := portal.New(studentGone{Store: mem}, zap.NewNop().Sugar(), portal.DefaultAbsenceThreshold, nil, nil)
	ctx := context.Background()

	parent, err := svc.CreateUser(ctx, portal.NewUser{Name: "p", Email: "p@ecole.fr", Role: models.Parent})
	if err != nil {
		t.Fatal(err)
	}
	stu, err := svc.CreateStudent(ctx, portal.NewStudent{
		FirstName: "Léa", LastName: "Martin",
		BirthDate:  time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
		ClassLabel: "CP", ParentID: parent.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	a, err := svc.CreateAttendance(ctx, portal.NewAttendance{
		StudentID: stu.ID,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    models.StatusAbsentUnjustified,
	})
	if err != nil {
		t.Fatalf("коммит не должен падать из-за резолюции: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("запись без id")
	}
	// деривация молчит: ни рутинного, ни алерта
	if ns := notifsFor(t, svc, parent.ID); len(ns) != 0 {
		t.Fatalf("уведомления при сорванной резолюции: %+v", ns)
	}
}

func containsMessage(ns []models.Notification, substr string) bool {
	for _, n := range ns {
		if strings.Contains(n.Message, substr) {
			return true
		}
	}
	return false
}
