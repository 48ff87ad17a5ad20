package models

import "time"

// TimeEntry represents hours logged against a task.
type TimeEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"index;not null" json:"task_id"`
	Task        *Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hours       float64   `gorm:"not null" json:"hours"`
	Description string    `gorm:"size:500" json:"description"`
	Date        time.Time `gorm:"index" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TimeEntry) TableName() string { return "time_entries" }
