package testutil

import (
	fab "github.com/Goldziher/fabricator"

	"taskapi/internal/task"
)

// NewTask fabricates a task with sane defaults; customData overrides
// individual fields.
func NewTask(customData ...map[string]any) task.Task {
	instance := fab.New(task.Task{})

	defaults := map[string]any{
		"ID":         task.NewID(),
		"Title":      "Fabricated task",
		"Detail":     "",
		"IsComplete": false,
		"DueAt":      "2025-06-30",
	}

	data := append([]map[string]any{defaults}, customData...)

	return instance.Build(data...)
}
