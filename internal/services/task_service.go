package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"github.com/yukikurage/task-manager-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotTaskCreator    = errors.New("only the task creator can perform this action")
	ErrAlreadyAssigned   = errors.New("task is already assigned to this user")
	ErrAssigneeNotFound  = errors.New("assignee does not exist")
	ErrUnknownSortColumn = errors.New("unknown sort column")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID     uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	DueDate    *time.Time
	SortField  string
	SortDesc   bool
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	UserID      uint64
}

// UpdateTaskInput represents input for updating a task.
// Nil fields are left unchanged; the Clear flags set a column to null.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	DueDate          *time.Time
	ClearDueDate     bool
	Status           *models.TaskStatus
	Priority         *models.TaskPriority
}

// ListTasks returns one page of the tasks owned by the user
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		UserID:     input.UserID,
		Status:     input.Status,
		Priority:   input.Priority,
		DueDate:    input.DueDate,
		Pagination: input.Pagination,
	}

	// The column name reaches ORDER BY, so it must come from the whitelist.
	if input.SortField != "" {
		if !models.IsTaskSortField(input.SortField) {
			return nil, ErrUnknownSortColumn
		}
		filter.Sort = &repository.TaskSort{Column: input.SortField, Desc: input.SortDesc}
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, repository.TaskRelations...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// Authorize checks that the actor owns the task
func (s *TaskService) Authorize(task *models.Task, actorID uint64) error {
	if !task.IsOwnedBy(actorID) {
		return ErrNotTaskCreator
	}
	return nil
}

// CreateTask creates a new task owned by input.UserID
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      models.DefaultTaskStatus,
		Priority:    models.DefaultTaskPriority,
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTask applies a partial update to a task owned by the actor
func (s *TaskService) UpdateTask(task *models.Task, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := s.Authorize(task, actorID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.ClearDescription {
		task.Description = nil
	} else if input.Description != nil {
		task.Description = input.Description
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(task.ID)
}

// DeleteTask deletes a task if the actor is the creator
func (s *TaskService) DeleteTask(task *models.Task, actorID uint64) error {
	if err := s.Authorize(task, actorID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignUser adds userID to the assignees of a task owned by the actor
func (s *TaskService) AssignUser(task *models.Task, actorID, userID uint64) (*models.Task, error) {
	if err := s.Authorize(task, actorID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.taskRepo.FindAssignment(task.ID, userID); err == nil {
		return nil, ErrAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}

	if err := s.taskRepo.AssignUser(task.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("failed to assign user: %w", err)
	}

	return s.GetTask(task.ID)
}
