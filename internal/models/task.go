package models

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses
const (
	TaskStatusBacklog    = "backlog"
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task priorities
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task represents a unit of work within a project.
type Task struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        string         `gorm:"size:50;default:todo;index" json:"status"`     // backlog, todo, in_progress, done
	Priority      string         `gorm:"size:50;default:medium;index" json:"priority"` // low, medium, high, urgent
	DueDate       *time.Time     `json:"due_date"`
	EstimatedTime float64        `gorm:"default:0" json:"estimated_time"` // hours
	TimeSpent     float64        `gorm:"default:0" json:"time_spent"`     // hours, sum of time entries
	ProjectID     uint           `gorm:"index;not null" json:"project_id"`
	Project       *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo    *uint          `gorm:"index" json:"assigned_to"`
	Assignee      *User          `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	CreatedBy     uint           `gorm:"index;not null" json:"created_by"`
	Creator       *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }
