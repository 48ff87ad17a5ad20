package services

import (
	"errors"

	"github.com/collabtrack/collabtrack/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db        *gorm.DB
	scope     *ScopeService
	notifySvc *NotificationService
}

func NewCommentService(db *gorm.DB, scope *ScopeService, notifySvc *NotificationService) *CommentService {
	return &CommentService{db: db, scope: scope, notifySvc: notifySvc}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// List returns a task's comments, oldest first.
func (s *CommentService) List(taskID, userID uint) ([]models.Comment, error) {
	if !s.scope.CanViewTask(taskID, userID) {
		return nil, ErrNotFound
	}

	var comments []models.Comment
	if err := s.db.
		Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Create adds a comment to a task and notifies the assignee and all
// project members except the author.
func (s *CommentService) Create(taskID, userID uint, req *CreateCommentRequest) (*models.Comment, error) {
	if !s.scope.CanViewTask(taskID, userID) {
		return nil, ErrNotFound
	}

	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		Content: req.Content,
		TaskID:  taskID,
		UserID:  userID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").First(&comment, comment.ID)

	memberIDs, err := s.scope.ProjectMemberIDs(task.ProjectID)
	if err == nil {
		recipients := CommentRecipients(task.AssignedTo, memberIDs, userID)
		s.notifySvc.Fanout(recipients, models.NotificationCommentAdded,
			"New comment",
			"New comment on task \""+task.Title+"\"",
			&task.ID)
	}

	return &comment, nil
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update edits a comment's content. Only the author may edit.
func (s *CommentService) Update(commentID, userID uint, req *UpdateCommentRequest) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !s.scope.CanViewTask(comment.TaskID, userID) {
		return nil, ErrNotFound
	}
	if comment.UserID != userID {
		return nil, ErrNotFound
	}

	if err := s.db.Model(&comment).Update("content", req.Content).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").First(&comment, comment.ID)
	return &comment, nil
}

// Delete removes a comment. Only the author or a project manager may delete.
func (s *CommentService) Delete(commentID, userID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !s.scope.CanViewTask(comment.TaskID, userID) {
		return ErrNotFound
	}

	var task models.Task
	if err := s.db.First(&task, comment.TaskID).Error; err != nil {
		return ErrNotFound
	}

	if !s.scope.CanDeleteComment(&comment, task.ProjectID, userID) {
		return ErrNotFound
	}

	return s.db.Delete(&comment).Error
}
