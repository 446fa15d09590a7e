// Package portal — ядро портала: коммит доменных записей, деривация
// уведомлений, правило порога отсутствий и транзакционная замена
// расписания класса. HTTP/CRUD-слой живёт снаружи и зовёт сервис in-process.
package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
	"github.com/Spok95/school-portal/internal/push"
	"github.com/Spok95/school-portal/internal/store"
)

// DefaultAbsenceThreshold — порог накопленных отсутствий по контракту.
const DefaultAbsenceThreshold = 3

type Service struct {
	store     store.Store
	log       *zap.SugaredLogger
	push      *push.Notifier // может быть nil
	threshold int
	loc       *time.Location // зона для дат в текстах уведомлений
	validate  *validator.Validate
	classes   *classLimiter
}

func New(st store.Store, log *zap.SugaredLogger, threshold int, pusher *push.Notifier, loc *time.Location) *Service {
	if threshold <= 0 {
		threshold = DefaultAbsenceThreshold
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:     st,
		log:       log,
		push:      pusher,
		threshold: threshold,
		loc:       loc,
		validate:  validator.New(),
		classes:   newClassLimiter(),
	}
}

// --- пользователи и ученики: тонкие операции без деривации ---

func (s *Service) CreateUser(ctx context.Context, in NewUser) (models.User, error) {
	if err := s.check(in); err != nil {
		return models.User{}, err
	}
	if !in.Role.Valid() {
		return models.User{}, fmt.Errorf("%w: role %q", ErrValidation, in.Role)
	}
	u, err := s.store.CreateUser(ctx, models.User{
		Name:  in.Name,
		Email: in.Email,
		Role:  in.Role,
		Phone: in.Phone,
	})
	if err != nil {
		return models.User{}, err
	}
	metrics.EntityWrites.WithLabelValues("user").Inc()
	return u, nil
}

// DeleteUser: родитель с привязанными учениками не удаляется — сперва
// переназначение, каскада нет.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.store.DeleteUser(ctx, id)
}

func (s *Service) CreateStudent(ctx context.Context, in NewStudent) (models.Student, error) {
	if err := s.check(in); err != nil {
		return models.Student{}, err
	}
	st, err := s.store.CreateStudent(ctx, models.Student{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		BirthDate:  in.BirthDate,
		ClassLabel: in.ClassLabel,
		ParentID:   in.ParentID,
		PhotoRef:   in.PhotoRef,
	})
	if err != nil {
		return models.Student{}, err
	}
	metrics.EntityWrites.WithLabelValues("student").Inc()
	return st, nil
}

// ArchiveStudent исключает ученика из активных списков и из алертинга,
// история его записей сохраняется.
func (s *Service) ArchiveStudent(ctx context.Context, id int64, archived bool) error {
	return s.store.SetStudentArchived(ctx, id, archived)
}
