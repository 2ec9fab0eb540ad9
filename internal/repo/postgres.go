package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskify/internal/model"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS todo (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT UNIQUE NOT NULL,
		description TEXT,
		progress    INTEGER DEFAULT 0
	)
`

const pgUniqueViolation = "23505"

type PostgresRepo struct { // Репозиторий для работы непосредственно с Postgres
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresRepo wraps an existing pool. The caller keeps ownership of the pool
// unless it calls Close on the repo.
func NewPostgresRepo(pool *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{
		pool:    pool,
		timeout: timeout,
	}
}

// ConnectPostgres opens a pool for dsn, pings it and creates the schema.
func ConnectPostgres(ctx context.Context, dsn string, timeout time.Duration) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	r := NewPostgresRepo(pool, timeout)
	if err := r.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

// Init pings the database and creates the todo table if it is missing.
func (r *PostgresRepo) Init(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Kind() string {
	return KindPostgres
}

func (r *PostgresRepo) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO todo (title, description, progress)
		VALUES ($1, $2, $3)
		RETURNING id
	`, t.Title, t.Description, int32(t.Progress)).Scan(&t.ID)
	if err != nil {
		return t, storageErr("create", r.mapError(err))
	}
	return t, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var (
		t        model.Task
		progress int32
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, COALESCE(description, ''), COALESCE(progress, 0)
		FROM todo
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Title, &t.Description, &progress)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, ErrorNotFound
	}
	if err != nil {
		return t, storageErr("get", err)
	}
	t.Progress, err = toProgress(progress)
	return t, storageErr("get", err)
}

func (r *PostgresRepo) List(ctx context.Context) ([]model.Task, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, COALESCE(description, ''), COALESCE(progress, 0)
		FROM todo
	`)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var (
			t        model.Task
			progress int32
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &progress); err != nil {
			return nil, storageErr("list", err)
		}
		if t.Progress, err = toProgress(progress); err != nil {
			return nil, storageErr("list", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return tasks, nil
}

func (r *PostgresRepo) Update(ctx context.Context, t model.Task) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, `
		UPDATE todo
		SET title = $2, description = $3, progress = $4
		WHERE id = $1
	`, t.ID, t.Title, t.Description, int32(t.Progress))
	if err != nil {
		return 0, storageErr("update", r.mapError(err))
	}
	return cmd.RowsAffected(), nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cmd, err := r.pool.Exec(ctx, "DELETE FROM todo WHERE id = $1", id)
	if err != nil {
		return 0, storageErr("delete", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *PostgresRepo) GetStats(ctx context.Context) (model.Stats, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var s model.Stats
	err := r.pool.QueryRow(ctx, statsQuery).Scan(&s.Total, &s.NotStarted, &s.InProgress, &s.Completed)
	return s, storageErr("stats", err)
}

func (r *PostgresRepo) mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrorConflict, pgErr.Message)
	}
	return err
}

func toProgress(v int32) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("progress %d out of range", v)
	}
	return uint8(v), nil
}
