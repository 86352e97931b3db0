package models

import "time"

// TaskAssignment links an assignee to a task. The composite key keeps each
// (task, user) pair unique.
type TaskAssignment struct {
	TaskID    uint64    `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	UserID    uint64    `gorm:"primarykey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
