package models

import "time"

// Invite statuses
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
)

// ProjectInvite records an invitation of a user into a project.
type ProjectInvite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Role      string    `gorm:"size:50;default:member" json:"role"`
	Status    string    `gorm:"size:20;default:pending;index" json:"status"`
	InvitedBy uint      `gorm:"not null" json:"invited_by"`
	UserID    *uint     `gorm:"index" json:"user_id"` // set when the invited email matches an existing user
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectInvite) TableName() string { return "project_invites" }
