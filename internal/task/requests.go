package task

// CreateRequest is the typed body of POST /tasks.
type CreateRequest struct {
	ID         string `json:"id" validate:"omitempty,max=24"`
	Title      string `json:"title" validate:"required,max=100"`
	Detail     string `json:"detail" validate:"omitempty,max=2000"`
	IsComplete *bool  `json:"isComplete"`
	DueAt      string `json:"dueAt" validate:"omitempty,isodate"`
}

// Task builds the full record to persist: a missing id is generated,
// a missing isComplete defaults to false.
func (r CreateRequest) Task() Task {
	id := r.ID

	if id == "" {
		id = NewID()
	}

	isComplete := false

	if r.IsComplete != nil {
		isComplete = *r.IsComplete
	}

	return Task{
		ID:         id,
		Title:      r.Title,
		Detail:     r.Detail,
		IsComplete: isComplete,
		DueAt:      r.DueAt,
	}
}

// UpdateRequest is the typed body of PUT /tasks/:taskId. Every field is
// optional; only fields present in the request are applied.
type UpdateRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=100"`
	Detail     *string `json:"detail" validate:"omitempty,max=2000"`
	IsComplete *bool   `json:"isComplete"`
	DueAt      *string `json:"dueAt" validate:"omitempty,isodate"`
}

// HasFields reports whether at least one field was supplied.
func (r UpdateRequest) HasFields() bool {
	return r.Title != nil || r.Detail != nil || r.IsComplete != nil || r.DueAt != nil
}

// Fields returns one assignment per supplied field, keyed by the
// stored attribute name. Unset fields are absent, which is what makes
// the update a merge rather than a replace.
func (r UpdateRequest) Fields() map[string]any {
	fields := map[string]any{}

	if r.Title != nil {
		fields["title"] = *r.Title
	}

	if r.Detail != nil {
		fields["detail"] = *r.Detail
	}

	if r.IsComplete != nil {
		fields["isComplete"] = *r.IsComplete
	}

	if r.DueAt != nil {
		fields["dueAt"] = *r.DueAt
	}

	return fields
}
