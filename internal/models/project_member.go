package models

import "time"

// Project member roles
const (
	MemberRoleOwner   = "owner"
	MemberRoleManager = "manager"
	MemberRoleMember  = "member"
)

// ProjectMember represents a user's membership and role within a project.
// Membership rows are hard-deleted on removal; a soft delete would keep the
// (project_id, user_id) unique index occupied and block re-inviting.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:50;default:member" json:"role"` // owner, manager, member
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
