package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/response"
)

// HealthHandler reports that the API is reachable.
type HealthHandler struct {
	version string
	now     func() time.Time
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, now: time.Now}
}

// Health answers any method on the API root.
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"timestamp": h.now().Unix(),
		"version":   h.version,
		"health":    "ok",
	}, "API is up and running", http.StatusOK)
}

// NotFound handles unknown routes.
func NotFound(c *gin.Context) {
	apierrors.Respond(c, apierrors.NotFound("Not Found."))
}
