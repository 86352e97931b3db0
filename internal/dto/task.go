package dto

import (
	"time"

	"github.com/yukikurage/task-manager-api/internal/constants"
	"github.com/yukikurage/task-manager-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthUserDTO is returned by register and login together with the new token
type AuthUserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Token     string    `json:"token"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	UserID      uint64              `json:"user_id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	DueDate     *string             `json:"due_date"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	User        *UserDTO            `json:"user"`
	Assignees   []UserDTO           `json:"assignees"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToAuthUserDTO converts a User model and its plain token to AuthUserDTO
func ToAuthUserDTO(user models.User, token string) AuthUserDTO {
	return AuthUserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		Token:     token,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignees:   make([]UserDTO, 0, len(task.Assignments)),
	}

	if task.DueDate != nil {
		due := task.DueDate.UTC().Format(constants.DateLayout)
		dto.DueDate = &due
	}

	// Include owner if preloaded
	if task.User.ID != 0 {
		user := ToUserDTO(task.User)
		dto.User = &user
	}

	for _, assignment := range task.Assignments {
		dto.Assignees = append(dto.Assignees, ToUserDTO(assignment.User))
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
