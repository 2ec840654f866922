package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"taskapi/internal/logging"
	"taskapi/internal/server/middleware"
	"taskapi/internal/store"
	"taskapi/internal/store/memstore"
	"taskapi/internal/task"
	"taskapi/internal/telemetry"
	"taskapi/internal/testutil"
)

type TaskHandlerSuite struct {
	suite.Suite
	Store  *memstore.Store
	Router *gin.Engine
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func (s *TaskHandlerSuite) SetupTest() {
	s.Store = memstore.New()
	s.Router = newTestRouter(s.T(), s.Store)
}

func newTestRouter(t *testing.T, st store.Store) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	validator, err := task.NewValidator()

	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	logger := logging.New("error")
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	taskHandler := NewTaskHandler(st, validator, logger, metrics)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS("*"))

	tasks := router.Group("/tasks")
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:taskId", taskHandler.GetTask)
		tasks.PUT("/:taskId", taskHandler.UpdateTask)
		tasks.DELETE("/:taskId", taskHandler.DeleteTask)
	}

	return router
}

func (s *TaskHandlerSuite) perform(method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()

	var req *http.Request

	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
	}

	s.Router.ServeHTTP(rr, req)

	return rr
}

func decodeTask(rr *httptest.ResponseRecorder) task.Task {
	var t task.Task
	json.Unmarshal(rr.Body.Bytes(), &t)

	return t
}

func decodeMessage(rr *httptest.ResponseRecorder) string {
	var body map[string]string
	json.Unmarshal(rr.Body.Bytes(), &body)

	return body["message"]
}

func (s *TaskHandlerSuite) seed(customData ...map[string]any) task.Task {
	seeded := testutil.NewTask(customData...)
	s.Store.Put(context.Background(), seeded)

	return seeded
}

func (s *TaskHandlerSuite) TestCreateTask() {
	rr := s.perform("POST", "/tasks", `{"title":"Buy milk","dueAt":"2025-06-30"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	Expect(rr.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))

	created := decodeTask(rr)

	Expect(created.ID).To(HaveLen(task.MaxIDLength))
	Expect(created.Title).To(Equal("Buy milk"))
	Expect(created.IsComplete).To(BeFalse())
	Expect(created.DueAt).To(Equal("2025-06-30"))
}

func (s *TaskHandlerSuite) TestCreateTaskWithSuppliedID() {
	rr := s.perform("POST", "/tasks", `{"id":"abc","title":"Buy milk"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(decodeTask(rr).ID).To(Equal("abc"))
}

func (s *TaskHandlerSuite) TestCreateTaskSuppliedIDOverwritesSilently() {
	s.seed(map[string]any{"ID": "abc", "Title": "old", "Detail": "old detail"})

	rr := s.perform("POST", "/tasks", `{"id":"abc","title":"new"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	stored, err := s.Store.Get(context.Background(), "abc")

	Expect(err).NotTo(HaveOccurred())
	Expect(stored.Title).To(Equal("new"))
	Expect(stored.Detail).To(BeEmpty())
}

func (s *TaskHandlerSuite) TestCreateTaskRoundTrip() {
	rr := s.perform("POST", "/tasks", `{"title":"Buy milk","detail":"2 liters","dueAt":"2025-06-30"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	created := decodeTask(rr)

	rr = s.perform("GET", "/tasks/"+created.ID, "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decodeTask(rr)).To(Equal(created))
}

func (s *TaskHandlerSuite) TestCreateTaskMalformedBody() {
	rr := s.perform("POST", "/tasks", `"not-json"`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeMessage(rr)).To(Equal("Invalid request format: The request body must be valid JSON"))
}

func (s *TaskHandlerSuite) TestCreateTaskValidationMessages() {
	rr := s.perform("POST", "/tasks", `{"detail":"missing title"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeMessage(rr)).To(Equal("Invalid task data: title is required"))
}

func (s *TaskHandlerSuite) TestCreateTaskTitleTooLong() {
	rr := s.perform("POST", "/tasks", `{"title":"`+strings.Repeat("x", 101)+`"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeMessage(rr)).To(HavePrefix("Invalid task data: "))
	Expect(decodeMessage(rr)).To(ContainSubstring("title must be at most 100 characters long"))
}

func (s *TaskHandlerSuite) TestListTasksEmpty() {
	rr := s.perform("GET", "/tasks", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(strings.TrimSpace(rr.Body.String())).To(Equal("[]"))
}

func (s *TaskHandlerSuite) TestListTasksReturnsAll() {
	s.seed(map[string]any{"Title": "one"})
	s.seed(map[string]any{"Title": "two", "IsComplete": true})

	rr := s.perform("GET", "/tasks", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var data []task.Task
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data).To(HaveLen(2))
}

func (s *TaskHandlerSuite) TestGetTaskNotFound() {
	rr := s.perform("GET", "/tasks/missing", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeMessage(rr)).To(Equal("Task with ID missing not found"))
}

func (s *TaskHandlerSuite) TestUpdateTaskPartialFieldsIsolated() {
	seeded := s.seed(map[string]any{
		"ID":     "abc",
		"Title":  "Buy milk",
		"Detail": "2 liters",
		"DueAt":  "2025-06-30",
	})

	rr := s.perform("PUT", "/tasks/abc", `{"isComplete":true}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decodeTask(rr)

	Expect(updated.IsComplete).To(BeTrue())
	Expect(updated.Title).To(Equal(seeded.Title))
	Expect(updated.Detail).To(Equal(seeded.Detail))
	Expect(updated.DueAt).To(Equal(seeded.DueAt))
}

func (s *TaskHandlerSuite) TestUpdateTaskSetsExactValues() {
	s.seed(map[string]any{"ID": "abc", "Title": "Buy milk"})

	rr := s.perform("PUT", "/tasks/abc", `{"title":"Buy bread","dueAt":"2025-07-01"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decodeTask(rr)

	Expect(updated.Title).To(Equal("Buy bread"))
	Expect(updated.DueAt).To(Equal("2025-07-01"))
}

func (s *TaskHandlerSuite) TestUpdateTaskEmptyBodyOnExistingID() {
	s.seed(map[string]any{"ID": "abc"})

	rr := s.perform("PUT", "/tasks/abc", `{}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeMessage(rr)).To(Equal("At least one field must be provided for update"))
}

func (s *TaskHandlerSuite) TestUpdateTaskEmptyBodyOnMissingIDIs404() {
	rr := s.perform("PUT", "/tasks/ghost", `{}`)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeMessage(rr)).To(Equal("Task with ID ghost not found"))
}

func (s *TaskHandlerSuite) TestUpdateTaskMalformedBody() {
	s.seed(map[string]any{"ID": "abc"})

	rr := s.perform("PUT", "/tasks/abc", `not-json`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeMessage(rr)).To(Equal("Invalid request format: The request body must be valid JSON"))
}

func (s *TaskHandlerSuite) TestUpdateTaskValidationMessage() {
	s.seed(map[string]any{"ID": "abc"})

	rr := s.perform("PUT", "/tasks/abc", `{"dueAt":"tomorrow"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeMessage(rr)).To(Equal("Invalid update task data: dueAt must be an ISO-8601 date or date-time"))
}

func (s *TaskHandlerSuite) TestDeleteTaskThenGet() {
	s.seed(map[string]any{"ID": "abc"})

	rr := s.perform("DELETE", "/tasks/abc", "")

	Expect(rr.Code).To(Equal(http.StatusNoContent))
	Expect(rr.Body.Len()).To(BeZero())

	rr = s.perform("GET", "/tasks/abc", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeMessage(rr)).To(Equal("Task with ID abc not found"))
}

func (s *TaskHandlerSuite) TestDeleteTaskNotFound() {
	rr := s.perform("DELETE", "/tasks/missing", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeMessage(rr)).To(Equal("Task with ID missing not found"))
}

func (s *TaskHandlerSuite) TestNotFoundSymmetry() {
	for _, tc := range []struct {
		method string
		body   string
	}{
		{"GET", ""},
		{"PUT", `{"title":"x"}`},
		{"DELETE", ""},
	} {
		rr := s.perform(tc.method, "/tasks/ghost", tc.body)

		Expect(rr.Code).To(Equal(http.StatusNotFound), "method %s", tc.method)
		Expect(decodeMessage(rr)).To(Equal("Task with ID ghost not found"), "method %s", tc.method)
	}
}

func (s *TaskHandlerSuite) TestOptionsPreflight() {
	rr := s.perform("OPTIONS", "/tasks", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	Expect(rr.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("DELETE"))
	Expect(strings.TrimSpace(rr.Body.String())).To(Equal("{}"))
}

// failingStore returns an opaque error from every operation.
type failingStore struct{}

var errBackend = errors.New("connection reset by peer")

func (failingStore) Put(context.Context, task.Task) error { return errBackend }
func (failingStore) Scan(context.Context) ([]task.Task, error) {
	return nil, errBackend
}
func (failingStore) Get(context.Context, string) (task.Task, error) {
	return task.Task{}, errBackend
}
func (failingStore) Update(context.Context, string, store.Fields) (task.Task, error) {
	return task.Task{}, errBackend
}
func (failingStore) Delete(context.Context, string) error { return errBackend }

func (s *TaskHandlerSuite) TestStoreFailuresAreGeneric500s() {
	router := newTestRouter(s.T(), failingStore{})

	for _, tc := range []struct {
		method  string
		path    string
		body    string
		message string
	}{
		{"POST", "/tasks", `{"title":"x"}`, "Failed to create task"},
		{"GET", "/tasks", "", "Failed to list tasks"},
		{"GET", "/tasks/abc", "", "Failed to get task"},
		{"PUT", "/tasks/abc", `{"title":"x"}`, "Failed to update task"},
		{"DELETE", "/tasks/abc", "", "Failed to delete task"},
	} {
		rr := httptest.NewRecorder()

		var req *http.Request

		if tc.body == "" {
			req, _ = http.NewRequest(tc.method, tc.path, nil)
		} else {
			req, _ = http.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		}

		router.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusInternalServerError), "%s %s", tc.method, tc.path)
		Expect(decodeMessage(rr)).To(Equal(tc.message))
		Expect(rr.Body.String()).NotTo(ContainSubstring("connection reset"))
	}
}
