package repository

import (
	"time"

	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/utils"
)

// Relations loaded whenever a task is returned to a client.
var TaskRelations = []string{"User", "Assignments", "Assignments.User"}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves one page of a user's tasks. It returns up to
	// PerPage+1 rows so callers can detect a following page.
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists the task's own columns
	Update(task *models.Task) error

	// Delete removes a task and its assignments
	Delete(id uint64) error

	// AssignUser adds userID to the task's assignees
	AssignUser(taskID, userID uint64) error

	// FindAssignment finds a specific task assignment
	FindAssignment(taskID, userID uint64) (*models.TaskAssignment, error)
}

// TaskSort orders a task listing by one column.
type TaskSort struct {
	Column string
	Desc   bool
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID     uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	DueDate    *time.Time
	Sort       *TaskSort
	Pagination utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithToken creates a user and its first token in one transaction
	CreateWithToken(user *models.User, token *models.AccessToken) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// EmailExists reports whether a user already uses email
	EmailExists(email string) (bool, error)
}

// TokenRepository defines the interface for access token data access
type TokenRepository interface {
	// Create stores a new token
	Create(token *models.AccessToken) error

	// FindByID finds a token by ID
	FindByID(id uint64) (*models.AccessToken, error)

	// Touch records that the token was used at t
	Touch(id uint64, t time.Time) error

	// Delete revokes a single token
	Delete(id uint64) error
}
