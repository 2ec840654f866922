package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"taskapi/internal/store"
	"taskapi/internal/task"
)

// columns maps stored attribute names to table columns.
var columns = map[string]string{
	"title":      "title",
	"detail":     "detail",
	"isComplete": "is_complete",
	"dueAt":      "due_at",
}

// Store implements the task store on a single sqlite table.
type Store struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func New(db *sql.DB) *Store {
	return &Store{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (s *Store) Put(ctx context.Context, t task.Task) error {
	query, args, err := s.builder.
		Insert("tasks").
		Options("OR REPLACE").
		Columns("id", "title", "detail", "is_complete", "due_at").
		Values(t.ID, t.Title, t.Detail, t.IsComplete, t.DueAt).
		ToSql()

	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)

	return err
}

func (s *Store) Scan(ctx context.Context) ([]task.Task, error) {
	query, args, err := s.builder.
		Select("id", "title", "detail", "is_complete", "due_at").
		From("tasks").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	data := []task.Task{}

	for rows.Next() {
		var t task.Task

		if err := rows.Scan(&t.ID, &t.Title, &t.Detail, &t.IsComplete, &t.DueAt); err != nil {
			return nil, err
		}

		data = append(data, t)
	}

	return data, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	query, args, err := s.builder.
		Select("id", "title", "detail", "is_complete", "due_at").
		From("tasks").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return task.Task{}, err
	}

	var t task.Task

	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&t.ID, &t.Title, &t.Detail, &t.IsComplete, &t.DueAt)

	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, store.ErrTaskNotFound
	}

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

func (s *Store) Update(ctx context.Context, id string, fields store.Fields) (task.Task, error) {
	update := s.builder.Update("tasks").Where(sq.Eq{"id": id})

	for name, value := range fields {
		column, known := columns[name]

		if !known {
			continue
		}

		update = update.Set(column, value)
	}

	query, args, err := update.ToSql()

	if err != nil {
		return task.Task{}, err
	}

	result, err := s.db.ExecContext(ctx, query, args...)

	if err != nil {
		return task.Task{}, err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return task.Task{}, store.ErrTaskNotFound
	}

	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	query, args, err := s.builder.
		Delete("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, query, args...)

	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
