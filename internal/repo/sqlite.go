package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/BuzzLyutic/taskify/internal/model"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS todo (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT UNIQUE NOT NULL,
		description TEXT,
		progress    INTEGER DEFAULT 0
	)
`

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

type SQLiteRepo struct { // Репозиторий поверх файла SQLite или памяти
	db      *sql.DB
	kind    string
	timeout time.Duration
}

// NewSQLiteRepo opens the database at path, pings it and creates the schema.
func NewSQLiteRepo(ctx context.Context, path string, timeout time.Duration) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Одно соединение: in-memory база живет только внутри него
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	kind := KindSQLite
	if path == MemoryDSN {
		kind = KindMemory
	}
	r := &SQLiteRepo{db: db, kind: kind, timeout: timeout}

	if err := r.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepo) init(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("configure sqlite: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Kind() string {
	return r.kind
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO todo (title, description, progress) VALUES (?, ?, ?)",
		t.Title, t.Description, int64(t.Progress),
	)
	if err != nil {
		return t, storageErr("create", r.mapError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return t, storageErr("create", err)
	}
	t.ID = id
	return t, nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var t model.Task
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, COALESCE(description, ''), progress FROM todo WHERE id = ?", id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Progress)

	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrorNotFound
	}
	return t, storageErr("get", err)
}

func (r *SQLiteRepo) List(ctx context.Context) ([]model.Task, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT id, title, COALESCE(description, ''), progress FROM todo")
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Progress); err != nil {
			return nil, storageErr("list", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return tasks, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, t model.Task) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		"UPDATE todo SET title = ?, description = ?, progress = ? WHERE id = ?",
		t.Title, t.Description, int64(t.Progress), t.ID,
	)
	if err != nil {
		return 0, storageErr("update", r.mapError(err))
	}
	n, err := res.RowsAffected()
	return n, storageErr("update", err)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "DELETE FROM todo WHERE id = ?", id)
	if err != nil {
		return 0, storageErr("delete", err)
	}
	n, err := res.RowsAffected()
	return n, storageErr("delete", err)
}

func (r *SQLiteRepo) GetStats(ctx context.Context) (model.Stats, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var s model.Stats
	err := r.db.QueryRowContext(ctx, statsQuery).Scan(&s.Total, &s.NotStarted, &s.InProgress, &s.Completed)
	return s, storageErr("stats", err)
}

func (r *SQLiteRepo) mapError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")) {
			return fmt.Errorf("%w: %s", ErrorConflict, sqliteErr.Error())
		}
	}
	return err
}
