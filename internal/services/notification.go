package services

import (
	"context"

	"github.com/collabtrack/collabtrack/internal/models"
	"github.com/collabtrack/collabtrack/pkg/logger"
	"gorm.io/gorm"
)

type NotificationService struct {
	db  *gorm.DB
	hub *Hub
}

func NewNotificationService(db *gorm.DB, hub *Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

type NotificationListRequest struct {
	Page       int  `form:"page" binding:"min=0"`
	PageSize   int  `form:"page_size" binding:"min=0,max=100"`
	UnreadOnly bool `form:"unread_only"`
}

type NotificationListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.Notification `json:"items"`
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID uint, req *NotificationListRequest) (*NotificationListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var notifications []models.Notification
	var total int64

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if req.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    notifications,
	}, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(id, userID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(id, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll removes all of the user's notifications.
func (s *NotificationService) ClearAll(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}

// Notify creates a notification for one user and pushes it over the hub.
// Failures are logged but never propagated; notification delivery is
// best-effort and must not fail the triggering operation.
func (s *NotificationService) Notify(userID uint, notifType, title, message string, relatedID *uint) {
	notification := models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("failed to create notification")
		return
	}

	if s.hub != nil {
		s.hub.PublishToUser(userID, Event{Name: "new-notification", Data: notification})
	}
}

// Fanout queues a notification for delivery to multiple users.
func (s *NotificationService) Fanout(userIDs []uint, notifType, title, message string, relatedID *uint) {
	if len(userIDs) == 0 {
		return
	}

	queue := GetTaskQueue()
	if queue == nil {
		s.deliver(userIDs, notifType, title, message, relatedID)
		return
	}

	task := &FanoutTask{
		UserIDs:   userIDs,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := queue.Enqueue(task); err != nil {
		logger.Error().Err(err).Msg("failed to enqueue notification fan-out, delivering inline")
		s.deliver(userIDs, notifType, title, message, relatedID)
	}
}

// ProcessFanout is the queue processor for fan-out tasks.
func (s *NotificationService) ProcessFanout(ctx context.Context, task *FanoutTask) error {
	s.deliver(task.UserIDs, task.Type, task.Title, task.Message, task.RelatedID)
	return nil
}

func (s *NotificationService) deliver(userIDs []uint, notifType, title, message string, relatedID *uint) {
	for _, userID := range userIDs {
		s.Notify(userID, notifType, title, message, relatedID)
	}
}

// CommentRecipients computes the recipients for a comment notification:
// the task assignee plus all project members, de-duplicated, excluding
// the comment author.
func CommentRecipients(assigneeID *uint, memberIDs []uint, authorID uint) []uint {
	seen := make(map[uint]bool)
	var recipients []uint

	add := func(id uint) {
		if id == authorID || seen[id] {
			return
		}
		seen[id] = true
		recipients = append(recipients, id)
	}

	if assigneeID != nil {
		add(*assigneeID)
	}
	for _, id := range memberIDs {
		add(id)
	}
	return recipients
}
