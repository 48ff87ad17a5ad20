package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a discussion entry on a task.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	TaskID    uint           `gorm:"index;not null" json:"task_id"`
	Task      *Task          `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Comment) TableName() string { return "comments" }
