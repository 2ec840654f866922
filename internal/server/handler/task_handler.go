package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"taskapi/internal/logging"
	"taskapi/internal/store"
	"taskapi/internal/task"
	"taskapi/internal/telemetry"
)

const invalidBodyMessage = "Invalid request format: The request body must be valid JSON"

// TaskHandler carries the five CRUD operations. Each invocation is
// stateless: validate, call the store, map the outcome.
type TaskHandler struct {
	store     store.Store
	validator *task.Validator
	logger    *logging.Logger
	metrics   *telemetry.AppMetrics
}

func NewTaskHandler(st store.Store, validator *task.Validator, logger *logging.Logger, metrics *telemetry.AppMetrics) *TaskHandler {
	return &TaskHandler{
		store:     st,
		validator: validator,
		logger:    logger,
		metrics:   metrics,
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ctx, span := telemetry.CreateChildSpan(c.Request.Context(), "handler.task.Create", []attribute.KeyValue{
		attribute.String("handler.operation", "CreateTask"),
	})

	defer span.End()

	var req task.CreateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Rejected malformed create body", map[string]any{"reason": err.Error()})
		respondError(c, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	if messages := h.validator.Validate(req); len(messages) > 0 {
		h.logger.Warn("Rejected invalid create request", map[string]any{"violations": messages})
		respondError(c, http.StatusBadRequest, "Invalid task data: "+strings.Join(messages, ", "))
		return
	}

	created := req.Task()

	span.SetAttributes(attribute.String("task.id", created.ID))

	if err := h.store.Put(ctx, created); err != nil {
		telemetry.AddSpanError(span, err)
		h.recordStoreFailure("create", err, created.ID)
		respondError(c, http.StatusInternalServerError, "Failed to create task")
		return
	}

	h.metrics.RecordTaskOperation("create")

	c.JSON(http.StatusCreated, created)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	ctx, span := telemetry.CreateChildSpan(c.Request.Context(), "handler.task.List", []attribute.KeyValue{
		attribute.String("handler.operation", "ListTasks"),
	})

	defer span.End()

	data, err := h.store.Scan(ctx)

	if err != nil {
		telemetry.AddSpanError(span, err)
		h.recordStoreFailure("list", err, "")
		respondError(c, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(data)))

	h.metrics.RecordTaskOperation("list")

	c.JSON(http.StatusOK, data)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	ctx, span := telemetry.CreateChildSpan(c.Request.Context(), "handler.task.Get", []attribute.KeyValue{
		attribute.String("handler.operation", "GetTask"),
	})

	defer span.End()

	id := c.Param("taskId")

	if id == "" {
		respondError(c, http.StatusBadRequest, "Invalid request: taskId is required")
		return
	}

	span.SetAttributes(attribute.String("task.id", id))

	found, err := h.store.Get(ctx, id)

	if err == store.ErrTaskNotFound {
		respondError(c, http.StatusNotFound, notFoundMessage(id))
		return
	}

	if err != nil {
		telemetry.AddSpanError(span, err)
		h.recordStoreFailure("get", err, id)
		respondError(c, http.StatusInternalServerError, "Failed to get task")
		return
	}

	h.metrics.RecordTaskOperation("get")

	c.JSON(http.StatusOK, found)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ctx, span := telemetry.CreateChildSpan(c.Request.Context(), "handler.task.Update", []attribute.KeyValue{
		attribute.String("handler.operation", "UpdateTask"),
	})

	defer span.End()

	id := c.Param("taskId")

	if id == "" {
		respondError(c, http.StatusBadRequest, "Invalid request: taskId path variable is required")
		return
	}

	span.SetAttributes(attribute.String("task.id", id))

	var req task.UpdateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Rejected malformed update body", map[string]any{"taskId": id, "reason": err.Error()})
		respondError(c, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	if messages := h.validator.Validate(req); len(messages) > 0 {
		h.logger.Warn("Rejected invalid update request", map[string]any{"taskId": id, "violations": messages})
		respondError(c, http.StatusBadRequest, "Invalid update task data: "+strings.Join(messages, ", "))
		return
	}

	// Existence is confirmed before the empty-body check; an empty
	// update on a missing id reports 404, not 400.
	if _, err := h.store.Get(ctx, id); err != nil {
		if err == store.ErrTaskNotFound {
			respondError(c, http.StatusNotFound, notFoundMessage(id))
			return
		}

		telemetry.AddSpanError(span, err)
		h.recordStoreFailure("update", err, id)
		respondError(c, http.StatusInternalServerError, "Failed to update task")
		return
	}

	if !req.HasFields() {
		respondError(c, http.StatusBadRequest, "At least one field must be provided for update")
		return
	}

	updated, err := h.store.Update(ctx, id, store.Fields(req.Fields()))

	if err == store.ErrTaskNotFound {
		// A concurrent delete can land between the two store calls.
		respondError(c, http.StatusNotFound, notFoundMessage(id))
		return
	}

	if err != nil {
		telemetry.AddSpanError(span, err)
		h.recordStoreFailure("update", err, id)
		respondError(c, http.StatusInternalServerError, "Failed to update task")
		return
	}

	h.metrics.RecordTaskOperation("update")

	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ctx, span := telemetry.CreateChildSpan(c.Request.Context(), "handler.task.Delete", []attribute.KeyValue{
		attribute.String("handler.operation", "DeleteTask"),
	})

	defer span.End()

	id := c.Param("taskId")

	if id == "" {
		respondError(c, http.StatusBadRequest, "Invalid request: taskId is required")
		return
	}

	span.SetAttributes(attribute.String("task.id", id))

	err := h.store.Delete(ctx, id)

	if err == store.ErrTaskNotFound {
		respondError(c, http.StatusNotFound, notFoundMessage(id))
		return
	}

	if err != nil {
		telemetry.AddSpanError(span, err)
		h.recordStoreFailure("delete", err, id)
		respondError(c, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	h.metrics.RecordTaskOperation("delete")

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) recordStoreFailure(operation string, err error, id string) {
	fields := map[string]any{"operation": operation}

	if id != "" {
		fields["taskId"] = id
	}

	h.logger.Error("Store call failed", err, fields)
	h.metrics.RecordStoreFailure(operation)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("Task with ID %s not found", id)
}
