package task

import (
	"errors"
	"strings"
)

// Validation errors returned by ValidateTitle and Store.Add.
var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrWhitespaceOnlyTitle = errors.New("task title cannot contain only whitespace")
)

// Task is a single stored task.
type Task struct {
	ID    int
	Title string
}

// ValidateTitle checks a raw title and returns it trimmed.
// The empty check runs on the untrimmed input, so "" and "   " fail with
// different errors.
func ValidateTitle(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyTitle
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrWhitespaceOnlyTitle
	}
	return trimmed, nil
}

// Store keeps tasks in insertion order.
// It is not safe for concurrent use.
type Store struct {
	tasks  []Task
	nextID int
}

// NewStore returns an empty store whose first id is 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add validates raw and appends a new task, returning its id.
// The store is only modified when validation succeeds.
func (s *Store) Add(raw string) (int, error) {
	title, err := ValidateTitle(raw)
	if err != nil {
		return 0, err
	}
	id := s.nextID
	s.tasks = append(s.tasks, Task{ID: id, Title: title})
	s.nextID++
	return id, nil
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the id the next successful Add will assign.
func (s *Store) NextID() int {
	return s.nextID
}
