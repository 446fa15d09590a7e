package export

import (
	"testing"
	"time"

	"github.com/Spok95/school-portal/internal/models"
)

func TestNewWorkbook_NotificationsSheet(t *testing.T) {
	ns := []models.Notification{
		{
			ID: 2, UserID: 7, Message: "Nouvelle note en maths", Kind: models.KindInfo,
			Link: "suivi", CreatedAt: time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC),
		},
		{
			ID: 1, UserID: 7, Message: "Absence non justifiée", Kind: models.KindError,
			Read: true, Link: "suivi", CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	wb, err := NewWorkbook([]SheetSpec{NotificationsSheet(ns)})
	if err != nil {
		t.Fatal(err)
	}

	got, err := wb.File.GetCellValue("Notifications", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ID" {
		t.Fatalf("заголовок A1 = %q", got)
	}
	got, err = wb.File.GetCellValue("Notifications", "E2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Nouvelle note en maths" {
		t.Fatalf("E2 = %q", got)
	}
	got, err = wb.File.GetCellValue("Notifications", "G3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "oui" {
		t.Fatalf("прочитанность G3 = %q", got)
	}
}

func TestNewWorkbook_RaggedRows(t *testing.T) {
	wb, err := NewWorkbook([]SheetSpec{{
		Title:  "Recap",
		Header: []string{"A", "B", "C"},
		Rows: [][]string{
			{"x"}, // короче заголовка
			{"x", "y", "z"},
		},
	}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := wb.File.GetCellValue("Recap", "C3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "z" {
		t.Fatalf("C3 = %q", got)
	}
}

func TestNewWorkbook_NoSheets(t *testing.T) {
	if _, err := NewWorkbook(nil); err == nil {
		t.Fatal("ожидали ошибку на пустой список листов")
	}
}

func TestColName(t *testing.T) {
	cases := map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ", 53: "BA"}
	for n, want := range cases {
		if got := colName(n); got != want {
			t.Fatalf("colName(%d) = %q, ожидали %q", n, got, want)
		}
	}
}
