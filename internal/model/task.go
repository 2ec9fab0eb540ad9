package model

import "strings"

type Task struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    uint8  `json:"progress"`
}

// NewTask возвращает еще не сохраненную задачу с нулевым прогрессом
func NewTask(title, description string) Task {
	return Task{
		Title:       strings.TrimSpace(title),
		Description: description,
	}
}

// Persisted reports whether the store has assigned an id.
func (t Task) Persisted() bool {
	return t.ID > 0
}

type Stats struct {
	Total      int64 `json:"total"`
	NotStarted int64 `json:"not_started"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}
