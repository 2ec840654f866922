package store

import (
	"context"
	"errors"

	"taskapi/internal/task"
)

// ErrTaskNotFound signals that the operation target is absent.
var ErrTaskNotFound = errors.New("task not found")

// Fields carries the assignments of a partial update, keyed by stored
// attribute name. Values are passed through opaquely; validation has
// already happened at the request boundary.
type Fields map[string]any

// Store is the key-value persistence seam. Put overwrites
// unconditionally; Update applies only the given fields and returns
// the post-update record; Delete reports ErrTaskNotFound when the
// record was not present at delete time.
type Store interface {
	Put(ctx context.Context, t task.Task) error
	Scan(ctx context.Context) ([]task.Task, error)
	Get(ctx context.Context, id string) (task.Task, error)
	Update(ctx context.Context, id string, fields Fields) (task.Task, error)
	Delete(ctx context.Context, id string) error
}

// Pinger is implemented by drivers that can report backend liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
