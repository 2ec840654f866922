package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapi/internal/store"
)

// HealthHandler reports process liveness and store reachability.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

func (h *HealthHandler) Check(c *gin.Context) {
	storeStatus := "ok"

	if pinger, ok := h.store.(store.Pinger); ok {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			storeStatus = "unreachable"
		}
	}

	if storeStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": storeStatus})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": storeStatus})
}
