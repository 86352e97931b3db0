package repository

import (
	"github.com/yukikurage/task-manager-api/internal/database"
	"github.com/yukikurage/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves one page of the filter owner's tasks
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	// Owner scoping is unconditional
	query := r.db.Model(&models.Task{}).Where("tasks.user_id = ?", filter.UserID)

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.DueDate != nil {
		dayStart := *filter.DueDate
		query = query.Where("tasks.due_date >= ? AND tasks.due_date < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}

	if filter.Sort != nil {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "tasks", Name: filter.Sort.Column},
			Desc:   filter.Sort.Desc,
		})
	}
	// Stable order for pagination
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: "tasks", Name: "id"}})

	for _, p := range TaskRelations {
		query = query.Preload(p)
	}

	if err := query.Scopes(database.Paginate(filter.Pagination)).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update persists the task's own columns
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete removes a task together with its assignments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AssignUser adds userID to the task's assignees. A duplicate pair fails
// with gorm.ErrDuplicatedKey.
func (r *GormTaskRepository) AssignUser(taskID, userID uint64) error {
	return r.db.Omit(clause.Associations).Create(&models.TaskAssignment{
		TaskID: taskID,
		UserID: userID,
	}).Error
}

// FindAssignment finds a specific task assignment
func (r *GormTaskRepository) FindAssignment(taskID, userID uint64) (*models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}
