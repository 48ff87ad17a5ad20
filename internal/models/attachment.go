package models

import (
	"time"

	"gorm.io/gorm"
)

// Attachment represents a file uploaded to a task.
type Attachment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Filename     string         `gorm:"size:255;not null" json:"filename"` // stored name on disk
	OriginalName string         `gorm:"size:255;not null" json:"original_name"`
	MimeType     string         `gorm:"size:100" json:"mime_type"`
	Size         int64          `json:"size"`
	URL          string         `gorm:"size:500" json:"url"`
	TaskID       uint           `gorm:"index;not null" json:"task_id"`
	Task         *Task          `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UploadedBy   uint           `gorm:"index;not null" json:"uploaded_by"`
	Uploader     *User          `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Attachment) TableName() string { return "attachments" }
