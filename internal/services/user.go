package services

import (
	"errors"

	"github.com/collabtrack/collabtrack/internal/models"
	"github.com/collabtrack/collabtrack/internal/utils"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserListRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin manager member"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.User `json:"items"`
}

// List returns paginated users. Admin only.
func (s *UserService) List(req *UserListRequest) (*UserListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})

	if req.Search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+req.Search+"%", "%"+req.Search+"%")
	}
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    users,
	}, nil
}

// UserSummary is the reduced user shape exposed to non-admin callers.
type UserSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Search finds active users by name or email for member pickers.
func (s *UserService) Search(query string, limit int) ([]UserSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var users []models.User
	q := s.db.Model(&models.User{}).Where("is_active = ?", true)
	if query != "" {
		q = q.Where("name LIKE ? OR email LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if err := q.Limit(limit).Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Avatar: u.Avatar,
		})
	}
	return summaries, nil
}

// GetByID returns a user by ID.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager member"`
}

// Create creates a user. Admin only.
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	// Soft-deleted users still hold the unique email index
	var count int64
	s.db.Unscoped().Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, ErrEmailTaken
	}

	if req.Role == "" {
		req.Role = "member"
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Role:     req.Role,
		AuthType: "local",
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type UpdateUserRequest struct {
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar"`
	Role     string  `json:"role" binding:"omitempty,oneof=admin manager member"`
	IsActive *bool   `json:"is_active"`
	Password string  `json:"password" binding:"omitempty,min=6"`
}

// Update updates a user. Admin only.
func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != "" {
		hashedPassword, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashedPassword
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// Delete soft-deletes a user. Admin only.
func (s *UserService) Delete(id uint) error {
	result := s.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type UpdateProfileRequest struct {
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile lets a user change their own display info.
func (s *UserService) UpdateProfile(id uint, req *UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}
