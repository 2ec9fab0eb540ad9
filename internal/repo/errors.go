package repo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

// StorageError is returned when a statement cannot be prepared or executed,
// including constraint violations and timeouts.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err carries a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

const statsQuery = `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN progress = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN progress > 0 AND progress < 100 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN progress >= 100 THEN 1 ELSE 0 END), 0)
		FROM todo
	`
