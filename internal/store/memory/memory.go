// Package memory — локальный однопроцессный бэкенд хранилища.
// Вся запись идёт через один мьютекс, конкурентных писателей нет,
// поэтому bulk-replace расписания сводится к критической секции.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/store"
)

type Store struct {
	mu  sync.RWMutex
	seq int64 // один счётчик на все коллекции: id уникальны и монотонны

	users         map[int64]models.User
	students      map[int64]models.Student
	grades        map[int64]models.Grade
	attendance    map[int64]models.Attendance
	observations  map[int64]models.Observation
	documents     map[int64]models.Document
	events        map[int64]models.Event
	messages      map[int64]models.Message
	menus         map[int64]models.Menu
	timetable     map[int64]models.TimetableEntry
	notifications map[int64]models.Notification
}

func New() *Store {
	return &Store{
		users:         make(map[int64]models.User),
		students:      make(map[int64]models.Student),
		grades:        make(map[int64]models.Grade),
		attendance:    make(map[int64]models.Attendance),
		observations:  make(map[int64]models.Observation),
		documents:     make(map[int64]models.Document),
		events:        make(map[int64]models.Event),
		messages:      make(map[int64]models.Message),
		menus:         make(map[int64]models.Menu),
		timetable:     make(map[int64]models.TimetableEntry),
		notifications: make(map[int64]models.Notification),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Close() error { return nil }

// --- пользователи ---

func (s *Store) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, ex := range s.users {
		if strings.ToLower(strings.TrimSpace(ex.Email)) == email {
			return models.User{}, store.ErrConflict
		}
	}
	u.ID = s.nextID()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) ListParents(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0)
	for _, u := range s.users {
		if u.Role == models.Parent {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	for _, st := range s.students {
		if st.ParentID == id {
			return store.ErrReferential
		}
	}
	delete(s.users, id)
	return nil
}

// --- ученики ---

func (s *Store) CreateStudent(_ context.Context, st models.Student) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.users[st.ParentID]
	if !ok || parent.Role != models.Parent {
		return models.Student{}, store.ErrReferential
	}
	st.ID = s.nextID()
	s.students[st.ID] = st
	return st, nil
}

func (s *Store) GetStudent(_ context.Context, id int64) (models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return models.Student{}, store.ErrNotFound
	}
	return st, nil
}

func (s *Store) ListActiveStudentsByClass(_ context.Context, classLabel string) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	norm := models.NormalizeClass(classLabel)
	out := make([]models.Student, 0)
	for _, st := range s.students {
		if !st.Archived && models.NormalizeClass(st.ClassLabel) == norm {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetStudentArchived(_ context.Context, id int64, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return store.ErrNotFound
	}
	st.Archived = archived
	s.students[id] = st
	return nil
}

// --- записи по ученику ---

func (s *Store) CreateGrade(_ context.Context, g models.Grade) (models.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[g.StudentID]; !ok {
		return models.Grade{}, store.ErrReferential
	}
	g.ID = s.nextID()
	s.grades[g.ID] = g
	return g, nil
}

func (s *Store) CreateAttendance(_ context.Context, a models.Attendance) (models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[a.StudentID]; !ok {
		return models.Attendance{}, store.ErrReferential
	}
	a.ID = s.nextID()
	s.attendance[a.ID] = a
	return a, nil
}

func (s *Store) ListAttendanceByStudent(_ context.Context, studentID int64) ([]models.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Attendance, 0)
	for _, a := range s.attendance {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountAbsences(_ context.Context, studentID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.attendance {
		if a.StudentID == studentID && a.Status.IsAbsence() {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateObservation(_ context.Context, o models.Observation) (models.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[o.StudentID]; !ok {
		return models.Observation{}, store.ErrReferential
	}
	o.ID = s.nextID()
	s.observations[o.ID] = o
	return o, nil
}

// --- контент ---

func (s *Store) CreateDocument(_ context.Context, d models.Document) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.nextID()
	s.documents[d.ID] = d
	return d, nil
}

func (s *Store) CreateEvent(_ context.Context, e models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID()
	s.events[e.ID] = e
	return e, nil
}

func (s *Store) CreateMessage(_ context.Context, m models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[m.SenderID]; !ok {
		return models.Message{}, store.ErrReferential
	}
	if _, ok := s.users[m.ReceiverID]; !ok {
		return models.Message{}, store.ErrReferential
	}
	m.ID = s.nextID()
	s.messages[m.ID] = m
	return m, nil
}

func (s *Store) CreateMenu(_ context.Context, m models.Menu) (models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID()
	s.menus[m.ID] = m
	return m, nil
}

// --- расписание ---

func (s *Store) ReplaceTimetableForClass(_ context.Context, classLabel string, entries []models.TimetableEntry) ([]models.TimetableEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	norm := models.NormalizeClass(classLabel)
	for id, e := range s.timetable {
		if models.NormalizeClass(e.ClassLabel) == norm {
			delete(s.timetable, id)
		}
	}
	out := make([]models.TimetableEntry, 0, len(entries))
	for _, e := range entries {
		e.ID = s.nextID()
		e.ClassLabel = classLabel // каноническая метка — от вызывающего
		s.timetable[e.ID] = e
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) ListTimetableByClass(_ context.Context, classLabel string) ([]models.TimetableEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	norm := models.NormalizeClass(classLabel)
	out := make([]models.TimetableEntry, 0)
	for _, e := range s.timetable {
		if models.NormalizeClass(e.ClassLabel) == norm {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- журнал уведомлений ---

func (s *Store) AppendNotification(_ context.Context, n models.Notification) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[n.UserID]; !ok {
		return models.Notification{}, store.ErrReferential
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.ID = s.nextID()
	s.notifications[n.ID] = n
	return n, nil
}

func (s *Store) ListNotifications(_ context.Context, userID *int64) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if userID == nil || n.UserID == *userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return store.ErrNotFound
	}
	n.Read = true
	s.notifications[id] = n
	return nil
}

func (s *Store) MarkAllNotificationsRead(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			s.notifications[id] = n
		}
	}
	return nil
}

func (s *Store) PurgeReadNotificationsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, ntf := range s.notifications {
		if ntf.Read && ntf.CreatedAt.Before(cutoff) {
			delete(s.notifications, id)
			n++
		}
	}
	return n, nil
}
