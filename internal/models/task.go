package models

import (
	"slices"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// TaskStatuses lists every status in display order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}
}

// Label returns the human readable name of the status.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusTodo:
		return "Todo"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusDone:
		return "Done"
	}
	return string(s)
}

func (s TaskStatus) IsValid() bool {
	for _, v := range TaskStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// TaskStatusValues returns the raw values accepted on the wire.
func TaskStatusValues() []string {
	statuses := TaskStatuses()
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return values
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// TaskPriorities lists every priority from lowest to highest.
func TaskPriorities() []TaskPriority {
	return []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}
}

// Label returns the human readable name of the priority.
func (p TaskPriority) Label() string {
	switch p {
	case TaskPriorityLow:
		return "Low"
	case TaskPriorityMedium:
		return "Medium"
	case TaskPriorityHigh:
		return "High"
	}
	return string(p)
}

func (p TaskPriority) IsValid() bool {
	for _, v := range TaskPriorities() {
		if p == v {
			return true
		}
	}
	return false
}

// TaskPriorityValues returns the raw values accepted on the wire.
func TaskPriorityValues() []string {
	priorities := TaskPriorities()
	values := make([]string, len(priorities))
	for i, p := range priorities {
		values[i] = string(p)
	}
	return values
}

// TaskSortFields lists the columns a task listing can be ordered by.
func TaskSortFields() []string {
	return []string{"id", "title", "description", "due_date", "status", "priority", "created_at", "updated_at"}
}

// IsTaskSortField reports whether name is one of TaskSortFields.
func IsTaskSortField(name string) bool {
	return slices.Contains(TaskSortFields(), name)
}

const (
	DefaultTaskStatus   = TaskStatusTodo
	DefaultTaskPriority = TaskPriorityMedium
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index" json:"user_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description *string      `gorm:"type:text" json:"description"`
	DueDate     *time.Time   `gorm:"type:date;index" json:"due_date"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo';index" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'Medium';index" json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	User        User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}

// IsOwnedBy reports whether userID created the task.
func (t *Task) IsOwnedBy(userID uint64) bool {
	return t.UserID == userID
}

// HasAssignee reports whether userID is among the loaded assignments.
func (t *Task) HasAssignee(userID uint64) bool {
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
