package services

import (
	"errors"

	"github.com/collabtrack/collabtrack/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record is outside the caller's scope or
// does not exist. Out-of-scope records are deliberately indistinguishable
// from missing ones.
var ErrNotFound = errors.New("record not found")

// ScopeService centralizes project and task visibility rules.
// A project is visible to its creator and its members. A task is visible
// to its assignee, its creator and anyone who can see its project.
type ScopeService struct {
	db *gorm.DB
}

func NewScopeService(db *gorm.DB) *ScopeService {
	return &ScopeService{db: db}
}

// memberProjectIDs returns a subquery of project IDs the user belongs to.
func (s *ScopeService) memberProjectIDs(userID uint) *gorm.DB {
	return s.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)
}

// VisibleProjects returns a gorm scope restricting a Project query to
// projects the user created or is a member of.
func (s *ScopeService) VisibleProjects(userID uint) func(*gorm.DB) *gorm.DB {
	sub := s.memberProjectIDs(userID)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.created_by = ? OR projects.id IN (?)", userID, sub)
	}
}

// VisibleTasks returns a gorm scope restricting a Task query to tasks the
// user is assigned to, created, or can see through project membership.
func (s *ScopeService) VisibleTasks(userID uint) func(*gorm.DB) *gorm.DB {
	memberSub := s.memberProjectIDs(userID)
	creatorSub := s.db.Model(&models.Project{}).
		Select("id").
		Where("created_by = ?", userID)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"tasks.assigned_to = ? OR tasks.created_by = ? OR tasks.project_id IN (?) OR tasks.project_id IN (?)",
			userID, userID, memberSub, creatorSub,
		)
	}
}

// CanViewProject reports whether the user can see the project.
func (s *ScopeService) CanViewProject(projectID, userID uint) bool {
	var count int64
	s.db.Model(&models.Project{}).
		Scopes(s.VisibleProjects(userID)).
		Where("projects.id = ?", projectID).
		Count(&count)
	return count > 0
}

// CanManageProject reports whether the user is the project creator or holds
// an owner/manager membership.
func (s *ScopeService) CanManageProject(projectID, userID uint) bool {
	var count int64
	s.db.Model(&models.Project{}).
		Where("id = ? AND created_by = ?", projectID, userID).
		Count(&count)
	if count > 0 {
		return true
	}

	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND role IN ?", projectID, userID,
			[]string{models.MemberRoleOwner, models.MemberRoleManager}).
		Count(&count)
	return count > 0
}

// CanViewTask reports whether the user can see the task.
func (s *ScopeService) CanViewTask(taskID, userID uint) bool {
	var count int64
	s.db.Model(&models.Task{}).
		Scopes(s.VisibleTasks(userID)).
		Where("tasks.id = ?", taskID).
		Count(&count)
	return count > 0
}

// CanDeleteTask allows the task creator or a project manager to delete.
func (s *ScopeService) CanDeleteTask(task *models.Task, userID uint) bool {
	if task.CreatedBy == userID {
		return true
	}
	return s.CanManageProject(task.ProjectID, userID)
}

// CanDeleteComment allows the comment author or a project manager to delete.
func (s *ScopeService) CanDeleteComment(comment *models.Comment, projectID, userID uint) bool {
	if comment.UserID == userID {
		return true
	}
	return s.CanManageProject(projectID, userID)
}

// CanDeleteAttachment allows the uploader or a project manager to delete.
func (s *ScopeService) CanDeleteAttachment(attachment *models.Attachment, projectID, userID uint) bool {
	if attachment.UploadedBy == userID {
		return true
	}
	return s.CanManageProject(projectID, userID)
}

// ProjectMemberIDs returns the user IDs of all members of a project,
// including the creator.
func (s *ScopeService) ProjectMemberIDs(projectID uint) ([]uint, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, err
	}

	var memberIDs []uint
	if err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &memberIDs).Error; err != nil {
		return nil, err
	}

	seen := map[uint]bool{project.CreatedBy: true}
	ids := []uint{project.CreatedBy}
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
