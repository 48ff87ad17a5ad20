package models

import "time"

// Notification types
const (
	NotificationTaskAssigned  = "task_assigned"
	NotificationTaskUpdated   = "task_updated"
	NotificationCommentAdded  = "comment_added"
	NotificationProjectInvite = "project_invite"
	NotificationFileUploaded  = "file_uploaded"
)

// Notification represents an in-app notification for a user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"size:50;index" json:"type"`
	Title     string    `gorm:"size:200" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	RelatedID *uint     `json:"related_id"` // task, project or comment id depending on type
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }
