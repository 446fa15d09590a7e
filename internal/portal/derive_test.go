package portal_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/portal"
)

func TestCreateGrade_NotifiesParent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	parent := seedParent(t, svc, "p@ecole.fr")
	other := seedParent(t, svc, "autre@ecole.fr")
	stu := seedStudent(t, svc, parent.ID, "CP")

	_, err := svc.CreateGrade(ctx, portal.NewGrade{
		StudentID: stu.ID, Subject: "maths", Score: 15.5, Coefficient: 2,
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	ns := notifsFor(t, svc, parent.ID)
	if len(ns) != 1 {
		t.Fatalf("ожидали 1 уведомление, получили %d", len(ns))
	}
	n := ns[0]
	if n.Kind != models.KindInfo || n.Link != "suivi" {
		t.Fatalf("неожиданные kind/link: %+v", n)
	}
	if !containsMessage(ns, "15.5/20") || !containsMessage(ns, "maths") {
		t.Fatalf("сообщение без оценки/предмета: %q", n.Message)
	}
	// адресно, не рассылка
	if got := notifsFor(t, svc, other.ID); len(got) != 0 {
		t.Fatalf("чужой родитель получил уведомление: %+v", got)
	}
}

func TestCreateObservation_NotifiesParent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	parent := seedParent(t, svc, "p@ecole.fr")
	stu := seedStudent(t, svc, parent.ID, "CP")

	_, err := svc.CreateObservation(ctx, portal.NewObservation{
		StudentID: stu.ID,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Text:      "Très bon travail", Author: "Mme Durand",
	})
	if err != nil {
		t.Fatal(err)
	}

	ns := notifsFor(t, svc, parent.ID)
	if len(ns) != 1 || ns[0].Link != "observations" {
		t.Fatalf("ожидали 1 уведомление на экран observations, получили %+v", ns)
	}
}

func TestCreateMessage_NotifiesReceiverOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	admin, err := svc.CreateUser(ctx, portal.NewUser{Name: "Mme Durand", Email: "dir@ecole.fr", Role: models.Admin})
	if err != nil {
		t.Fatal(err)
	}
	parent := seedParent(t, svc, "p@ecole.fr")

	_, err = svc.CreateMessage(ctx, portal.NewMessage{
		SenderID: admin.ID, ReceiverID: parent.ID,
		Subject: "Réunion", Body: "Jeudi 18h",
	})
	if err != nil {
		t.Fatal(err)
	}

	ns := notifsFor(t, svc, parent.ID)
	if len(ns) != 1 || ns[0].Link != "messages" {
		t.Fatalf("ожидали 1 уведомление получателю, получили %+v", ns)
	}
	if !containsMessage(ns, admin.Name) {
		t.Fatalf("в сообщении нет имени отправителя: %q", ns[0].Message)
	}
	if got := notifsFor(t, svc, admin.ID); len(got) != 0 {
		t.Fatalf("отправитель не должен получать уведомление: %+v", got)
	}
}

func TestCreateDocument_BroadcastsToAllParents(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p1 := seedParent(t, svc, "p1@ecole.fr")
	p2 := seedParent(t, svc, "p2@ecole.fr")
	admin, err := svc.CreateUser(ctx, portal.NewUser{Name: "adm", Email: "adm@ecole.fr", Role: models.Admin})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.CreateDocument(ctx, portal.NewDocument{
		Title: "Règlement intérieur",
		Date:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []models.User{p1, p2} {
		ns := notifsFor(t, svc, p.ID)
		if len(ns) != 1 || ns[0].Link != "documents" {
			t.Fatalf("родитель %d: ожидали 1 уведомление documents, получили %+v", p.ID, ns)
		}
	}
	if got := notifsFor(t, svc, admin.ID); len(got) != 0 {
		t.Fatalf("админ попал в рассылку: %+v", got)
	}
}

func TestCreateEvent_BroadcastsToAllParents(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p1 := seedParent(t, svc, "p1@ecole.fr")
	p2 := seedParent(t, svc, "p2@ecole.fr")

	_, err := svc.CreateEvent(ctx, portal.NewEvent{
		Title: "Kermesse", Description: "Fête de fin d'année",
		Date: time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []models.User{p1, p2} {
		ns := notifsFor(t, svc, p.ID)
		if len(ns) != 1 || ns[0].Link != "evenements" {
			t.Fatalf("родитель %d: ожидали 1 уведомление evenements, получили %+v", p.ID, ns)
		}
	}
}

func TestCreateMenu_NoDerivation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	parent := seedParent(t, svc, "p@ecole.fr")

	_, err := svc.CreateMenu(ctx, portal.NewMenu{Week: "2026-W10", Content: "Lundi : purée"})
	if err != nil {
		t.Fatal(err)
	}
	if ns := notifsFor(t, svc, parent.ID); len(ns) != 0 {
		t.Fatalf("меню не рассылается: %+v", ns)
	}
}
