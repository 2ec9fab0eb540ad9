package repo

import (
	"context"

	"github.com/BuzzLyutic/taskify/internal/model"
)

const (
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// TaskRepository определяет интерфейс для работы с задачами
//
// Update and Delete do not check that the row exists: a miss is a no-op that reports
// zero rows affected.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	GetStats(ctx context.Context) (model.Stats, error)
	Kind() string
	Close() error
}
