package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BuzzLyutic/task-planner-api/internal/agenda"
	"github.com/BuzzLyutic/task-planner-api/internal/model"
	"github.com/BuzzLyutic/task-planner-api/internal/repo"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrIdempotencyConflict = errors.New("a request with this Idempotency-Key is still in progress")
)

type TaskService struct {
	repo           repo.TaskRepository
	keys           repo.KeyStore
	idempotencyTTL time.Duration
	loc            *time.Location
}

// NewTaskService wires the task repository with an optional idempotency key
// store (nil disables Idempotency-Key handling). loc is the zone whose
// calendar defines "today" and date buckets.
func NewTaskService(repo repo.TaskRepository, keys repo.KeyStore, idempotencyTTL time.Duration, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{
		repo:           repo,
		keys:           keys,
		idempotencyTTL: idempotencyTTL,
		loc:            loc,
	}
}

func (s *TaskService) Location() *time.Location {
	return s.loc
}

func (s *TaskService) Create(ctx context.Context, t model.Task, idempKey string) (model.Task, error) {
	if err := s.validate(t); err != nil { // Валидация модели на корректность введенных данных
		return t, err
	}
	t.Completed = false

	if idempKey == "" || s.keys == nil {
		return s.repo.Create(ctx, t)
	}

	// Ключ действует только в пределах одного пользователя
	key := fmt.Sprintf("%d:%s", t.UserID, idempKey)
	reserved, err := s.keys.Reserve(ctx, key, s.idempotencyTTL)
	if err != nil {
		return t, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if !reserved { // Ключ уже встречался - возвращаем ранее созданную задачу
		return s.replay(ctx, key)
	}

	resource, err := s.repo.Create(ctx, t)
	if err != nil {
		if relErr := s.keys.Release(ctx, key); relErr != nil {
			err = errors.Join(err, fmt.Errorf("release idempotency key: %w", relErr))
		}
		return resource, err
	}

	if err := s.keys.Save(ctx, key, resource.ID, s.idempotencyTTL); err != nil {
		return resource, fmt.Errorf("save idempotency key: %w", err)
	}
	return resource, nil
}

func (s *TaskService) replay(ctx context.Context, key string) (model.Task, error) {
	id, err := s.keys.Get(ctx, key)
	switch {
	case errors.Is(err, repo.ErrorKeyPending):
		return model.Task{}, ErrIdempotencyConflict
	case err != nil:
		return model.Task{}, fmt.Errorf("get idempotency key: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]model.Task, error) {
	return s.repo.List(ctx, userID)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) SetCompletion(ctx context.Context, id int64, completed bool) (model.Task, error) {
	return s.repo.SetCompletion(ctx, id, completed)
}

// Agenda returns the user's tasks inside timeframe, grouped by day.
func (s *TaskService) Agenda(ctx context.Context, userID int64, timeframe agenda.Timeframe, now time.Time) ([]agenda.DateGroup, error) {
	tasks, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks = agenda.FilterByTimeframe(tasks, timeframe, now.In(s.loc))
	return agenda.GroupByDate(tasks, s.loc), nil
}

type Stats struct {
	Total      int                    `json:"total"`
	Completed  int                    `json:"completed"`
	Pending    int                    `json:"pending"`
	ByPriority map[model.Priority]int `json:"byPriority"`
}

func (s *TaskService) Stats(ctx context.Context, userID int64) (Stats, error) {
	tasks, err := s.repo.List(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		ByPriority: map[model.Priority]int{
			model.PriorityHigh:   0,
			model.PriorityMedium: 0,
			model.PriorityLow:    0,
		},
	}
	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		stats.ByPriority[t.Priority]++
	}
	return stats, nil
}

func (s *TaskService) validate(t model.Task) error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrValidation)
	}
	if _, err := model.ParseDate(t.Time, s.loc); err != nil {
		return fmt.Errorf("%w: time %q is not a date", ErrValidation, t.Time)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: priority must be High, Medium or Low", ErrValidation)
	}
	return nil
}
