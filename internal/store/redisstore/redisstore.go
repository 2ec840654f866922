package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"taskapi/internal/config"
	"taskapi/internal/store"
	"taskapi/internal/task"
)

// Store keeps one hash per task at <keyspace>:task:<id> and a set of
// ids at <keyspace>:task-ids as the scan index.
type Store struct {
	client   *redis.Client
	keyspace string
}

func New(cfg *config.Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(client, cfg.TasksKeyspace), nil
}

func NewWithClient(client *redis.Client, keyspace string) *Store {
	return &Store{client: client, keyspace: keyspace}
}

func (s *Store) Put(ctx context.Context, t task.Task) error {
	pipe := s.client.TxPipeline()

	// Rewrite the hash from scratch so a put clears optional fields
	// left over from a previous record at the same id.
	pipe.Del(ctx, s.taskKey(t.ID))
	pipe.HSet(ctx, s.taskKey(t.ID), taskToMap(t))
	pipe.SAdd(ctx, s.indexKey(), t.ID)

	_, err := pipe.Exec(ctx)

	return err
}

func (s *Store) Scan(ctx context.Context) ([]task.Task, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()

	if err != nil {
		return nil, err
	}

	data := make([]task.Task, 0, len(ids))

	if len(ids) == 0 {
		return data, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(ids))

	for _, id := range ids {
		cmds = append(cmds, pipe.HGetAll(ctx, s.taskKey(id)))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	for _, cmd := range cmds {
		values := cmd.Val()

		if len(values) == 0 {
			continue
		}

		data = append(data, taskFromMap(values))
	}

	return data, nil
}

func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	values, err := s.client.HGetAll(ctx, s.taskKey(id)).Result()

	if err != nil {
		return task.Task{}, err
	}

	if len(values) == 0 {
		return task.Task{}, store.ErrTaskNotFound
	}

	return taskFromMap(values), nil
}

func (s *Store) Update(ctx context.Context, id string, fields store.Fields) (task.Task, error) {
	exists, err := s.client.Exists(ctx, s.taskKey(id)).Result()

	if err != nil {
		return task.Task{}, err
	}

	if exists == 0 {
		return task.Task{}, store.ErrTaskNotFound
	}

	assignments := make(map[string]any, len(fields))

	for name, value := range fields {
		if b, ok := value.(bool); ok {
			assignments[name] = strconv.FormatBool(b)
			continue
		}

		assignments[name] = value
	}

	if err := s.client.HSet(ctx, s.taskKey(id), assignments).Err(); err != nil {
		return task.Task{}, err
	}

	values, err := s.client.HGetAll(ctx, s.taskKey(id)).Result()

	if err != nil {
		return task.Task{}, err
	}

	if len(values) == 0 {
		return task.Task{}, store.ErrTaskNotFound
	}

	return taskFromMap(values), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	delCmd := pipe.Del(ctx, s.taskKey(id))
	pipe.SRem(ctx, s.indexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if delCmd.Val() == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) taskKey(id string) string {
	return fmt.Sprintf("%s:task:%s", s.keyspace, id)
}

func (s *Store) indexKey() string {
	return fmt.Sprintf("%s:task-ids", s.keyspace)
}

func taskToMap(t task.Task) map[string]any {
	return map[string]any{
		"id":         t.ID,
		"title":      t.Title,
		"detail":     t.Detail,
		"isComplete": strconv.FormatBool(t.IsComplete),
		"dueAt":      t.DueAt,
	}
}

func taskFromMap(values map[string]string) task.Task {
	isComplete, _ := strconv.ParseBool(values["isComplete"])

	return task.Task{
		ID:         values["id"],
		Title:      values["title"],
		Detail:     values["detail"],
		IsComplete: isComplete,
		DueAt:      values["dueAt"],
	}
}
