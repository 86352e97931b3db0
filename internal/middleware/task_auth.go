package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/constants"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/services"
)

// LoadTask resolves the :id route parameter to a task with its relations.
// Unknown or malformed ids are reported as not found; ownership is checked
// later by the handler so each action can report its own message.
func LoadTask(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.Respond(c, apierrors.NotFound(""))
			return
		}

		task, err := taskService.GetTask(taskID)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.Respond(c, apierrors.NotFound(""))
				return
			}
			apierrors.Respond(c, apierrors.Internal(err))
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by LoadTask
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}
