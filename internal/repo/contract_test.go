package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskify/internal/model"
)

// runContract checks the behavior every TaskRepository must share.
// newRepo must return an empty store.
func runContract(t *testing.T, newRepo func(t *testing.T) TaskRepository) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Create(ctx, model.Task{Title: "Write report", Description: "Q3", Progress: 7})
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		got, err := r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("empty description and max progress", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Create(ctx, model.Task{Title: "Edge", Progress: 255})
		require.NoError(t, err)

		got, err := r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "", got.Description)
		assert.Equal(t, uint8(255), got.Progress)
	})

	t.Run("duplicate title is rejected", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Create(ctx, model.NewTask("Same", "first"))
		require.NoError(t, err)

		_, err = r.Create(ctx, model.NewTask("Same", "second"))
		require.Error(t, err)
		assert.True(t, IsStorageError(err))
		assert.ErrorIs(t, err, ErrorConflict)

		tasks, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "first", tasks[0].Description)
	})

	t.Run("empty list", func(t *testing.T) {
		r := newRepo(t)

		tasks, err := r.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("list returns every task", func(t *testing.T) {
		r := newRepo(t)

		want := map[string]bool{}
		for i := 0; i < 5; i++ {
			title := fmt.Sprintf("Task %d", i)
			_, err := r.Create(ctx, model.NewTask(title, ""))
			require.NoError(t, err)
			want[title] = true
		}

		tasks, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 5)
		for _, task := range tasks {
			assert.True(t, want[task.Title], "unexpected task %q", task.Title)
			assert.NotZero(t, task.ID)
		}
	})

	t.Run("update overwrites every field", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Create(ctx, model.Task{Title: "Old", Description: "old", Progress: 90})
		require.NoError(t, err)

		next := model.Task{ID: created.ID, Title: "New", Description: "", Progress: 0}
		n, err := r.Update(ctx, next)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, next, got)
	})

	t.Run("update of missing id is a no-op", func(t *testing.T) {
		r := newRepo(t)

		n, err := r.Update(ctx, model.Task{ID: 4242, Title: "Ghost"})
		require.NoError(t, err)
		assert.Zero(t, n)

		tasks, err := r.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("update to a taken title conflicts", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Create(ctx, model.NewTask("A", ""))
		require.NoError(t, err)
		b, err := r.Create(ctx, model.NewTask("B", ""))
		require.NoError(t, err)

		b.Title = "A"
		_, err = r.Update(ctx, b)
		assert.ErrorIs(t, err, ErrorConflict)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Create(ctx, model.NewTask("Disposable", ""))
		require.NoError(t, err)

		n, err := r.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = r.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("missing id yields not found", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Get(ctx, 99999)
		assert.ErrorIs(t, err, ErrorNotFound)
		assert.False(t, IsStorageError(err))

		created, err := r.Create(ctx, model.NewTask("Short lived", ""))
		require.NoError(t, err)
		_, err = r.Delete(ctx, created.ID)
		require.NoError(t, err)

		_, err = r.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("buy milk scenario", func(t *testing.T) {
		r := newRepo(t)

		created, err := r.Create(ctx, model.Task{Title: "Buy milk", Description: "2%", Progress: 0})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)

		tasks, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, int64(1), tasks[0].ID)

		_, err = r.Update(ctx, model.Task{ID: 1, Title: "Buy milk", Description: "whole", Progress: 50})
		require.NoError(t, err)

		got, err := r.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint8(50), got.Progress)
		assert.Equal(t, "whole", got.Description)

		_, err = r.Delete(ctx, 1)
		require.NoError(t, err)
		_, err = r.Get(ctx, 1)
		assert.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("stats", func(t *testing.T) {
		r := newRepo(t)

		stats, err := r.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Stats{}, stats)

		for i, p := range []uint8{0, 0, 30, 99, 100, 200} {
			_, err := r.Create(ctx, model.Task{Title: fmt.Sprintf("s%d", i), Progress: p})
			require.NoError(t, err)
		}

		stats, err = r.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Stats{Total: 6, NotStarted: 2, InProgress: 2, Completed: 2}, stats)
	})
}
