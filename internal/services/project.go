package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/collabtrack/collabtrack/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadyMember       = errors.New("User is already a member of this project")
	ErrCannotRemoveCreator = errors.New("Cannot remove the project creator")
)

type ProjectService struct {
	db        *gorm.DB
	scope     *ScopeService
	notifySvc *NotificationService
	configSvc *SystemConfigService
}

func NewProjectService(db *gorm.DB, scope *ScopeService, notifySvc *NotificationService) *ProjectService {
	return &ProjectService{
		db:        db,
		scope:     scope,
		notifySvc: notifySvc,
		configSvc: NewSystemConfigService(db),
	}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived completed"`
	Search   string `form:"search"`
}

type ProjectSummary struct {
	models.Project
	TaskCount          int64   `json:"task_count"`
	CompletedTaskCount int64   `json:"completed_task_count"`
	Progress           float64 `json:"progress"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []ProjectSummary `json:"items"`
}

type CreateProjectRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=active archived completed"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateProjectRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=active archived completed"`
	Deadline    *time.Time `json:"deadline"`
}

// List returns paginated projects visible to the user.
func (s *ProjectService) List(userID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var projects []models.Project
	var total int64

	query := s.db.Model(&models.Project{}).Scopes(s.scope.VisibleProjects(userID))

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Search != "" {
		query = query.Where("title LIKE ?", "%"+req.Search+"%")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.
		Preload("Creator").
		Preload("Members.User").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	items := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		items = append(items, s.summarize(p))
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

func (s *ProjectService) summarize(p models.Project) ProjectSummary {
	var taskCount, completedCount int64
	s.db.Model(&models.Task{}).Where("project_id = ?", p.ID).Count(&taskCount)
	s.db.Model(&models.Task{}).Where("project_id = ? AND status = ?", p.ID, models.TaskStatusDone).Count(&completedCount)

	progress := 0.0
	if taskCount > 0 {
		progress = float64(completedCount) / float64(taskCount) * 100
	}

	return ProjectSummary{
		Project:            p,
		TaskCount:          taskCount,
		CompletedTaskCount: completedCount,
		Progress:           progress,
	}
}

// GetByID returns a project by ID if it is visible to the user.
func (s *ProjectService) GetByID(id, userID uint) (*ProjectSummary, error) {
	if !s.scope.CanViewProject(id, userID) {
		return nil, ErrNotFound
	}

	var project models.Project
	if err := s.db.
		Preload("Creator").
		Preload("Members.User").
		First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	summary := s.summarize(project)
	return &summary, nil
}

// Create creates a new project and adds the creator as its owner.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*models.Project, error) {
	if req.Status == "" {
		req.Status = models.ProjectStatusActive
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
		CreatedBy:   userID,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      models.MemberRoleOwner,
		}
		return tx.Create(&member).Error
	}); err != nil {
		return nil, err
	}

	return &project, nil
}

// Update updates a project. Requires manage permission.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest, userID uint) (*models.Project, error) {
	if !s.scope.CanViewProject(id, userID) {
		return nil, ErrNotFound
	}
	if !s.scope.CanManageProject(id, userID) {
		return nil, ErrNotFound
	}

	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

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
	if req.Deadline != nil {
		updates["deadline"] = req.Deadline
	}

	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &project, nil
}

// Delete deletes a project. Only the creator can delete.
func (s *ProjectService) Delete(id, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if project.CreatedBy != userID {
		return ErrNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

// ListMembers returns a project's members with user info.
func (s *ProjectService) ListMembers(projectID, userID uint) ([]models.ProjectMember, error) {
	if !s.scope.CanViewProject(projectID, userID) {
		return nil, ErrNotFound
	}

	var members []models.ProjectMember
	if err := s.db.
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=owner manager member"`
}

// InviteMember records an invite and, when the email belongs to an existing
// user, immediately adds them as a member and notifies them.
func (s *ProjectService) InviteMember(projectID, userID uint, req *InviteMemberRequest) (*models.ProjectInvite, error) {
	if !s.scope.CanViewProject(projectID, userID) {
		return nil, ErrNotFound
	}
	if !s.scope.CanManageProject(projectID, userID) {
		return nil, ErrNotFound
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, ErrNotFound
	}

	if req.Role == "" {
		req.Role = models.MemberRoleMember
	}

	expireDays := s.getInviteExpireDays()
	invite := models.ProjectInvite{
		ProjectID: projectID,
		Email:     req.Email,
		Role:      req.Role,
		Status:    models.InviteStatusPending,
		InvitedBy: userID,
		ExpiresAt: time.Now().AddDate(0, 0, expireDays),
	}

	var invited models.User
	err := s.db.Where("email = ?", req.Email).First(&invited).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	userExists := err == nil
	if userExists {
		var count int64
		s.db.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", projectID, invited.ID).
			Count(&count)
		if count > 0 {
			return nil, ErrAlreadyMember
		}
		invite.UserID = &invited.ID
		invite.Status = models.InviteStatusAccepted
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invite).Error; err != nil {
			return err
		}
		if userExists {
			member := models.ProjectMember{
				ProjectID: projectID,
				UserID:    invited.ID,
				Role:      req.Role,
			}
			return tx.Create(&member).Error
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if userExists {
		s.notifySvc.Notify(invited.ID, models.NotificationProjectInvite,
			"Added to project",
			"You have been added to project \""+project.Title+"\"",
			&projectID)
	}

	return &invite, nil
}

func (s *ProjectService) getInviteExpireDays() int {
	value := s.configSvc.GetWithDefault("invite_expire_days", "7")
	days, err := strconv.Atoi(value)
	if err != nil || days <= 0 {
		return 7
	}
	return days
}

// RemoveMember removes a member from a project. The creator cannot be removed.
func (s *ProjectService) RemoveMember(projectID, targetUserID, userID uint) error {
	if !s.scope.CanViewProject(projectID, userID) {
		return ErrNotFound
	}
	if !s.scope.CanManageProject(projectID, userID) {
		return ErrNotFound
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return ErrNotFound
	}

	if project.CreatedBy == targetUserID {
		return ErrCannotRemoveCreator
	}

	result := s.db.Where("project_id = ? AND user_id = ?", projectID, targetUserID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner manager member"`
}

// UpdateMemberRole changes a member's role within a project.
func (s *ProjectService) UpdateMemberRole(projectID, targetUserID, userID uint, req *UpdateMemberRoleRequest) (*models.ProjectMember, error) {
	if !s.scope.CanViewProject(projectID, userID) {
		return nil, ErrNotFound
	}
	if !s.scope.CanManageProject(projectID, userID) {
		return nil, ErrNotFound
	}

	var member models.ProjectMember
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, targetUserID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&member).Update("role", req.Role).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
