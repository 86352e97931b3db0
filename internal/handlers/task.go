package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/dto"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/middleware"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/response"
	"github.com/yukikurage/task-manager-api/internal/services"
	"github.com/yukikurage/task-manager-api/internal/utils"
)

// Actions named in authorization failures.
const (
	actionView   = "view"
	actionUpdate = "update"
	actionDelete = "delete"
	actionAssign = "assign"
)

type TaskHandler struct {
	taskService *services.TaskService
	now         func() time.Time
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		now:         time.Now,
	}
}

// ListTasks returns one page of the current user's tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Respond(c, apierrors.Unauthenticated())
		return
	}

	query := dto.ListTasksQuery{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		DueDate:  c.Query("due_date"),
		Sort:     c.Query("sort"),
	}
	if err := query.Validate(); err != nil {
		apierrors.Respond(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	sortField, sortDesc := query.SortField()

	input := services.ListTasksInput{
		UserID:     userID,
		DueDate:    query.DueDateValue(),
		SortField:  sortField,
		SortDesc:   sortDesc,
		Pagination: params,
	}
	if query.Status != "" {
		status := models.TaskStatus(query.Status)
		input.Status = &status
	}
	if query.Priority != "" {
		priority := models.TaskPriority(query.Priority)
		input.Priority = &priority
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err, "")
		return
	}

	page := utils.NewSimplePage(c, params, dto.ToTaskDTOs(tasks))
	response.Success(c, page, "Successfully retrieved tasks", http.StatusOK)
}

// CreateTask creates a task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Respond(c, apierrors.Unauthenticated())
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}

	req := dto.NewCreateTaskRequest(body)
	if err := req.Validate(dto.Today(h.now())); err != nil {
		apierrors.Respond(c, err)
		return
	}

	input := services.CreateTaskInput{
		Title:       *req.Title,
		Description: req.Description,
		DueDate:     req.DueDateValue(),
		UserID:      userID,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err, "")
		return
	}

	response.Success(c, dto.ToTaskDTO(*task), "Task created successfully", http.StatusCreated)
}

// GetTask returns a specific task by ID
// Task is already loaded with relations by LoadTask middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, _, ok := h.authorizedTask(c, actionView)
	if !ok {
		return
	}

	response.Success(c, dto.ToTaskDTO(*task), "Task retrieved successfully", http.StatusOK)
}

// UpdateTask applies a partial update
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, userID, ok := h.authorizedTask(c, actionUpdate)
	if !ok {
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}

	req := dto.NewUpdateTaskRequest(body)
	if err := req.Validate(dto.Today(h.now())); err != nil {
		apierrors.Respond(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		ClearDescription: req.Has("description") && req.Description == nil,
		DueDate:          req.DueDateValue(),
		ClearDueDate:     req.Has("due_date") && req.DueDate == nil,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	updated, err := h.taskService.UpdateTask(task, userID, input)
	if err != nil {
		respondTaskError(c, err, actionUpdate)
		return
	}

	response.Success(c, dto.ToTaskDTO(*updated), "Task updated successfully", http.StatusOK)
}

// DeleteTask deletes a task (only creator can delete)
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, userID, ok := h.authorizedTask(c, actionDelete)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(task, userID); err != nil {
		respondTaskError(c, err, actionDelete)
		return
	}

	response.Success(c, response.Empty(), "Task deleted successfully", http.StatusOK)
}

// AssignTask adds a user to the task's assignees (only creator can assign)
func (h *TaskHandler) AssignTask(c *gin.Context) {
	task, userID, ok := h.authorizedTask(c, actionAssign)
	if !ok {
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}

	req := dto.NewAssignTaskRequest(body)
	if err := req.Validate(); err != nil {
		apierrors.Respond(c, err)
		return
	}

	updated, err := h.taskService.AssignUser(task, userID, *req.UserID)
	if err != nil {
		respondTaskError(c, err, actionAssign)
		return
	}

	response.Success(c, dto.ToTaskDTO(*updated), "Task assigned successfully", http.StatusOK)
}

// authorizedTask returns the task loaded by middleware once the current user
// is confirmed as its owner. On failure the response is already written.
func (h *TaskHandler) authorizedTask(c *gin.Context, action string) (*models.Task, uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Respond(c, apierrors.Unauthenticated())
		return nil, 0, false
	}

	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.Respond(c, apierrors.NotFound(""))
		return nil, 0, false
	}

	if err := h.taskService.Authorize(task, userID); err != nil {
		respondTaskError(c, err, action)
		return nil, 0, false
	}

	return task, userID, true
}

func respondTaskError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.Respond(c, apierrors.NotFound(""))
	case errors.Is(err, services.ErrNotTaskCreator):
		apierrors.Respond(c, apierrors.Forbidden(fmt.Sprintf("you are not authorized to %s this task", action)))
	case errors.Is(err, services.ErrAlreadyAssigned):
		apierrors.Respond(c, apierrors.ValidationField("user_id", "Task is already assigned to this user"))
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.Respond(c, apierrors.ValidationField("user_id", "The selected user id is invalid."))
	case errors.Is(err, services.ErrUnknownSortColumn):
		apierrors.Respond(c, apierrors.ValidationField("sort", "The selected sort is invalid."))
	default:
		apierrors.Respond(c, apierrors.Internal(err))
	}
}
