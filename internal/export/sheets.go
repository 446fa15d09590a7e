package export

import (
	"strconv"

	"github.com/Spok95/school-portal/internal/models"
)

// NotificationsSheet — лист журнала уведомлений (как отдаёт ListNotifications:
// новые сверху).
func NotificationsSheet(ns []models.Notification) SheetSpec {
	rows := make([][]string, 0, len(ns))
	for _, n := range ns {
		read := "non"
		if n.Read {
			read = "oui"
		}
		rows = append(rows, []string{
			strconv.FormatInt(n.ID, 10),
			strconv.FormatInt(n.UserID, 10),
			n.CreatedAt.Format("02/01/2006 15:04"),
			string(n.Kind),
			n.Message,
			n.Link,
			read,
		})
	}
	return SheetSpec{
		Title:  "Notifications",
		Header: []string{"ID", "Utilisateur", "Date", "Type", "Message", "Écran", "Lu"},
		Rows:   rows,
	}
}

// AttendanceSheet — лист посещаемости одного ученика.
func AttendanceSheet(st models.Student, rows []models.Attendance) SheetSpec {
	out := make([][]string, 0, len(rows))
	for _, a := range rows {
		just := ""
		if a.Justification != nil {
			just = *a.Justification
		}
		out = append(out, []string{
			a.Date.Format("02/01/2006"),
			string(a.Status),
			just,
		})
	}
	return SheetSpec{
		Title:  st.FullName(),
		Header: []string{"Date", "Statut", "Justification"},
		Rows:   out,
	}
}
