package services

import (
	"errors"
	"time"

	"github.com/collabtrack/collabtrack/internal/models"
	"gorm.io/gorm"
)

type TaskService struct {
	db        *gorm.DB
	scope     *ScopeService
	notifySvc *NotificationService
}

func NewTaskService(db *gorm.DB, scope *ScopeService, notifySvc *NotificationService) *TaskService {
	return &TaskService{db: db, scope: scope, notifySvc: notifySvc}
}

type TaskListRequest struct {
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
	ProjectID  uint   `form:"project_id"`
	Status     string `form:"status" binding:"omitempty,oneof=backlog todo in_progress done"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo uint   `form:"assigned_to"`
	Search     string `form:"search"`
}

type TaskListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Task `json:"items"`
}

type CreateTaskRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	Status        string     `json:"status" binding:"omitempty,oneof=backlog todo in_progress done"`
	Priority      string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate       *time.Time `json:"due_date"`
	EstimatedTime float64    `json:"estimated_time"`
	ProjectID     uint       `json:"project_id" binding:"required"`
	AssignedTo    *uint      `json:"assigned_to"`
}

type UpdateTaskRequest struct {
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Status        string     `json:"status" binding:"omitempty,oneof=backlog todo in_progress done"`
	Priority      string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate       *time.Time `json:"due_date"`
	EstimatedTime *float64   `json:"estimated_time"`
	AssignedTo    *uint      `json:"assigned_to"`
}

// List returns paginated tasks visible to the user.
func (s *TaskService) List(userID uint, req *TaskListRequest) (*TaskListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var tasks []models.Task
	var total int64

	query := s.db.Model(&models.Task{}).Scopes(s.scope.VisibleTasks(userID))

	if req.ProjectID != 0 {
		query = query.Where("tasks.project_id = ?", req.ProjectID)
	}
	if req.Status != "" {
		query = query.Where("tasks.status = ?", req.Status)
	}
	if req.Priority != "" {
		query = query.Where("tasks.priority = ?", req.Priority)
	}
	if req.AssignedTo != 0 {
		query = query.Where("tasks.assigned_to = ?", req.AssignedTo)
	}
	if req.Search != "" {
		query = query.Where("tasks.title LIKE ?", "%"+req.Search+"%")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.
		Preload("Assignee").
		Preload("Creator").
		Preload("Project").
		Offset(offset).Limit(req.PageSize).
		Order("tasks.created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return &TaskListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    tasks,
	}, nil
}

// GetByID returns a task by ID if it is visible to the user.
func (s *TaskService) GetByID(id, userID uint) (*models.Task, error) {
	if !s.scope.CanViewTask(id, userID) {
		return nil, ErrNotFound
	}

	var task models.Task
	if err := s.db.
		Preload("Assignee").
		Preload("Creator").
		Preload("Project").
		First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Create creates a task in a project the user can see.
func (s *TaskService) Create(req *CreateTaskRequest, userID uint) (*models.Task, error) {
	if !s.scope.CanViewProject(req.ProjectID, userID) {
		return nil, ErrNotFound
	}

	if req.Status == "" {
		req.Status = models.TaskStatusTodo
	}
	if req.Priority == "" {
		req.Priority = models.TaskPriorityMedium
	}

	task := models.Task{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		EstimatedTime: req.EstimatedTime,
		ProjectID:     req.ProjectID,
		AssignedTo:    req.AssignedTo,
		CreatedBy:     userID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	if task.AssignedTo != nil && *task.AssignedTo != userID {
		s.notifySvc.Notify(*task.AssignedTo, models.NotificationTaskAssigned,
			"New task assigned",
			"You have been assigned to task \""+task.Title+"\"",
			&task.ID)
	}

	return &task, nil
}

// Update updates a task the user can see.
func (s *TaskService) Update(id uint, req *UpdateTaskRequest, userID uint) (*models.Task, error) {
	if !s.scope.CanViewTask(id, userID) {
		return nil, ErrNotFound
	}

	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	previousAssignee := task.AssignedTo
	previousStatus := task.Status

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Priority != "" {
		updates["priority"] = req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate
	}
	if req.EstimatedTime != nil {
		updates["estimated_time"] = *req.EstimatedTime
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}

	if len(updates) > 0 {
		if err := s.db.Model(&task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	assignee := previousAssignee
	if req.AssignedTo != nil {
		assignee = req.AssignedTo
	}

	assignmentChanged := req.AssignedTo != nil &&
		(previousAssignee == nil || *previousAssignee != *req.AssignedTo)
	statusChanged := req.Status != "" && req.Status != previousStatus

	if assignmentChanged && *req.AssignedTo != userID {
		s.notifySvc.Notify(*req.AssignedTo, models.NotificationTaskAssigned,
			"New task assigned",
			"You have been assigned to task \""+task.Title+"\"",
			&task.ID)
	}

	// Only a status change notifies the assignee
	if statusChanged && assignee != nil && *assignee != userID {
		s.notifySvc.Notify(*assignee, models.NotificationTaskUpdated,
			"Task status updated",
			"Task \""+task.Title+"\" has been "+statusChangeMessage(req.Status),
			&task.ID)
	}

	return &task, nil
}

func statusChangeMessage(status string) string {
	switch status {
	case models.TaskStatusBacklog:
		return "moved to backlog"
	case models.TaskStatusTodo:
		return "moved to todo"
	case models.TaskStatusInProgress:
		return "started working on"
	case models.TaskStatusDone:
		return "completed"
	}
	return "updated"
}

// Delete deletes a task and its comments, attachments and time entries.
// Only the task creator or a project manager may delete.
func (s *TaskService) Delete(id, userID uint) error {
	if !s.scope.CanViewTask(id, userID) {
		return ErrNotFound
	}

	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !s.scope.CanDeleteTask(&task, userID) {
		return ErrNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

type AddTimeEntryRequest struct {
	Hours       float64    `json:"hours" binding:"required,gt=0"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
}

// AddTimeEntry logs hours against a task and recomputes its total time
// spent as the sum of all entries.
func (s *TaskService) AddTimeEntry(taskID, userID uint, req *AddTimeEntryRequest) (*models.TimeEntry, error) {
	if !s.scope.CanViewTask(taskID, userID) {
		return nil, ErrNotFound
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	entry := models.TimeEntry{
		TaskID:      taskID,
		UserID:      userID,
		Hours:       req.Hours,
		Description: req.Description,
		Date:        date,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		var totalHours float64
		if err := tx.Model(&models.TimeEntry{}).
			Where("task_id = ?", taskID).
			Select("COALESCE(SUM(hours), 0)").
			Scan(&totalHours).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Update("time_spent", totalHours).Error
	}); err != nil {
		return nil, err
	}

	return &entry, nil
}

// ListTimeEntries returns all time entries for a task.
func (s *TaskService) ListTimeEntries(taskID, userID uint) ([]models.TimeEntry, error) {
	if !s.scope.CanViewTask(taskID, userID) {
		return nil, ErrNotFound
	}

	var entries []models.TimeEntry
	if err := s.db.
		Preload("User").
		Where("task_id = ?", taskID).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
