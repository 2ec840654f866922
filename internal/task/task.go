package task

import (
	"strings"

	"github.com/google/uuid"
)

// MaxIDLength caps both generated and caller-supplied identifiers.
const MaxIDLength = 24

// Task is the single managed entity. IsComplete is always present once
// persisted; Detail and DueAt are optional.
type Task struct {
	ID         string `json:"id" redis:"id"`
	Title      string `json:"title" redis:"title"`
	Detail     string `json:"detail,omitempty" redis:"detail"`
	IsComplete bool   `json:"isComplete" redis:"isComplete"`
	DueAt      string `json:"dueAt,omitempty" redis:"dueAt"`
}

// NewID returns a random unique identifier: a v4 UUID reduced to its
// hex characters and capped at MaxIDLength.
func NewID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")

	return id[:MaxIDLength]
}
