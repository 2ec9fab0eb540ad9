package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Open picks a backend from dsn: postgres:// and postgresql:// URLs go to Postgres,
// anything else is treated as a SQLite file path (":memory:" for no file).
//
// If the configured store cannot be opened, Open falls back to an in-memory SQLite
// database and logs a warning. Data written after the fallback does not survive a
// restart; Kind reports KindMemory so callers can surface it.
func Open(ctx context.Context, dsn string, timeout time.Duration, logger *zap.Logger) (TaskRepository, error) {
	r, err := openDSN(ctx, dsn, timeout)
	if err == nil {
		logger.Info("storage opened", zap.String("kind", r.Kind()), zap.String("location", redact(dsn)))
		return r, nil
	}

	logger.Warn("failed to open storage, falling back to in-memory database; data will not be persisted",
		zap.String("location", redact(dsn)),
		zap.Error(err),
	)

	mem, memErr := NewSQLiteRepo(ctx, MemoryDSN, timeout)
	if memErr != nil {
		return nil, fmt.Errorf("open in-memory fallback: %w (original error: %v)", memErr, err)
	}
	return mem, nil
}

func openDSN(ctx context.Context, dsn string, timeout time.Duration) (TaskRepository, error) {
	if isPostgresDSN(dsn) {
		return ConnectPostgres(ctx, dsn, timeout)
	}
	if dsn == "" {
		return nil, fmt.Errorf("empty storage location")
	}
	return NewSQLiteRepo(ctx, dsn, timeout)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// redact hides the password of a connection URL before it is logged.
func redact(dsn string) string {
	if !isPostgresDSN(dsn) {
		return dsn
	}
	scheme, rest, _ := strings.Cut(dsn, "://")
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return dsn
	}
	user, _, hasPass := strings.Cut(rest[:at], ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":xxxxx" + rest[at:]
}
