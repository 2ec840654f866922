package sqlitestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"taskapi/internal/store"
	"taskapi/internal/store/sqlitestore"
	"taskapi/internal/task"
	"taskapi/internal/testutil"
)

type SqliteStoreSuite struct {
	suite.Suite
	store *sqlitestore.Store
	ctx   context.Context
}

func TestSqliteStoreSuite(t *testing.T) {
	suite.Run(t, new(SqliteStoreSuite))
}

func (s *SqliteStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = sqlitestore.New(testutil.InitTestDB(s.T()))
}

func (s *SqliteStoreSuite) TestPutGetRoundTrip() {
	saved := testutil.NewTask(map[string]any{
		"ID":    "abc",
		"Title": "Buy milk",
		"DueAt": "2025-06-30",
	})

	s.Require().NoError(s.store.Put(s.ctx, saved))

	got, err := s.store.Get(s.ctx, "abc")

	s.Require().NoError(err)
	s.Equal(saved, got)
}

func (s *SqliteStoreSuite) TestPutOverwrites() {
	s.Require().NoError(s.store.Put(s.ctx, task.Task{ID: "abc", Title: "old", Detail: "stale"}))
	s.Require().NoError(s.store.Put(s.ctx, task.Task{ID: "abc", Title: "new"}))

	got, err := s.store.Get(s.ctx, "abc")

	s.Require().NoError(err)
	s.Equal("new", got.Title)
	s.Empty(got.Detail)

	data, err := s.store.Scan(s.ctx)

	s.Require().NoError(err)
	s.Len(data, 1)
}

func (s *SqliteStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, "nope")

	s.ErrorIs(err, store.ErrTaskNotFound)
}

func (s *SqliteStoreSuite) TestScanEmpty() {
	data, err := s.store.Scan(s.ctx)

	s.Require().NoError(err)
	s.NotNil(data)
	s.Empty(data)
}

func (s *SqliteStoreSuite) TestUpdateAppliesOnlyGivenFields() {
	s.Require().NoError(s.store.Put(s.ctx, task.Task{
		ID:     "abc",
		Title:  "Buy milk",
		Detail: "2 liters",
		DueAt:  "2025-06-30",
	}))

	updated, err := s.store.Update(s.ctx, "abc", store.Fields{
		"isComplete": true,
		"title":      "Buy bread",
	})

	s.Require().NoError(err)
	s.True(updated.IsComplete)
	s.Equal("Buy bread", updated.Title)
	s.Equal("2 liters", updated.Detail)
	s.Equal("2025-06-30", updated.DueAt)
}

func (s *SqliteStoreSuite) TestUpdateMissing() {
	_, err := s.store.Update(s.ctx, "nope", store.Fields{"title": "x"})

	s.ErrorIs(err, store.ErrTaskNotFound)
}

func (s *SqliteStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Put(s.ctx, task.Task{ID: "abc", Title: "Buy milk"}))

	s.Require().NoError(s.store.Delete(s.ctx, "abc"))

	_, err := s.store.Get(s.ctx, "abc")
	s.ErrorIs(s.store.Delete(s.ctx, "abc"), store.ErrTaskNotFound)
	s.ErrorIs(err, store.ErrTaskNotFound)
}
