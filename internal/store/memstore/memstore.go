package memstore

import (
	"context"
	"sync"

	"taskapi/internal/store"
	"taskapi/internal/task"
)

// Store is a mutex-guarded in-memory driver. It backs handler tests
// and the local-dev STORE_DRIVER=memory mode.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]task.Task
	order []string
}

func New() *Store {
	return &Store{tasks: map[string]task.Task{}}
}

func (s *Store) Put(ctx context.Context, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}

	s.tasks[t.ID] = t

	return nil
}

func (s *Store) Scan(ctx context.Context) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := make([]task.Task, 0, len(s.tasks))

	for _, id := range s.order {
		if t, exists := s.tasks[id]; exists {
			data = append(data, t)
		}
	}

	return data, nil
}

func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.tasks[id]

	if !exists {
		return task.Task{}, store.ErrTaskNotFound
	}

	return t, nil
}

func (s *Store) Update(ctx context.Context, id string, fields store.Fields) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tasks[id]

	if !exists {
		return task.Task{}, store.ErrTaskNotFound
	}

	for name, value := range fields {
		switch name {
		case "title":
			t.Title, _ = value.(string)
		case "detail":
			t.Detail, _ = value.(string)
		case "isComplete":
			t.IsComplete, _ = value.(bool)
		case "dueAt":
			t.DueAt, _ = value.(string)
		}
	}

	s.tasks[id] = t

	return t, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return store.ErrTaskNotFound
	}

	delete(s.tasks, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}
