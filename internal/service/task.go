package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BuzzLyutic/taskify/internal/model"
	"github.com/BuzzLyutic/taskify/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = 0 // id назначает только хранилище
	t.Title = strings.TrimSpace(t.Title)
	if err := s.validate(t); err != nil {
		return t, err
	}
	return s.repo.Create(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	if id <= 0 {
		return model.Task{}, repo.ErrorNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

// Update overwrites the stored task with t and returns the number of rows changed.
// Zero rows means no task had t.ID.
func (s *TaskService) Update(ctx context.Context, t model.Task) (int64, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.ID <= 0 {
		return 0, ErrValidation
	}
	if err := s.validate(t); err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, nil
	}
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) GetStats(ctx context.Context) (model.Stats, error) {
	return s.repo.GetStats(ctx)
}

// StorageKind reports which backend is serving requests.
func (s *TaskService) StorageKind() string {
	return s.repo.Kind()
}

func (s *TaskService) validate(t model.Task) error {
	if t.Title == "" {
		return ErrValidation
	}
	return nil
}
