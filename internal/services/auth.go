package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/collabtrack/collabtrack/internal/config"
	"github.com/collabtrack/collabtrack/internal/models"
	"github.com/collabtrack/collabtrack/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailTaken         = errors.New("User with this email already exists")
)

type AuthService struct {
	db          *gorm.DB
	ldapService *LDAPService
	jwtConfig   *config.JWTConfig
	configSvc   *SystemConfigService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		db:          db,
		ldapService: NewLDAPService(db),
		jwtConfig:   jwtCfg,
		configSvc:   NewSystemConfigService(db),
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	AuthType string `json:"auth_type"` // local, ldap
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	User            *models.User
}

type RefreshResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
}

// Register creates a new local user account and logs them in.
func (s *AuthService) Register(req *RegisterRequest, clientIP, userAgent string) (*LoginResult, error) {
	// Soft-deleted users still hold the unique email index
	var count int64
	s.db.Unscoped().Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Role:     "member",
		AuthType: "local",
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return s.issueTokens(&user, clientIP, userAgent)
}

// Login authenticates a user and returns access and refresh tokens.
func (s *AuthService) Login(req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var user *models.User
	var err error

	// Default to local auth if not specified
	if req.AuthType == "" {
		req.AuthType = "local"
	}

	switch req.AuthType {
	case "local":
		user, err = s.localAuth(req.Email, req.Password)
	case "ldap":
		user, err = s.ldapAuth(req.Email, req.Password)
	default:
		return nil, errors.New("invalid auth type")
	}

	if err != nil {
		return nil, err
	}

	return s.issueTokens(user, clientIP, userAgent)
}

func (s *AuthService) issueTokens(user *models.User, clientIP, userAgent string) (*LoginResult, error) {
	accessHours := s.getAccessTokenExpireHours()
	refreshHours := s.getRefreshTokenExpireHours()

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, accessHours)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshExpireAt := time.Now().Add(time.Duration(refreshHours) * time.Hour)
	refreshRecord := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: refreshHash,
		ExpiresAt: refreshExpireAt,
	}
	if clientIP != "" {
		refreshRecord.CreatedByIP = clientIP
	}
	if userAgent != "" {
		refreshRecord.UserAgent = userAgent
	}
	if err := s.db.Create(&refreshRecord).Error; err != nil {
		return nil, err
	}

	// Update last login time
	now := time.Now()
	user.LastLogin = &now
	s.db.Save(user)

	return &LoginResult{
		AccessToken:     token,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: refreshExpireAt,
		User:            user,
	}, nil
}

func (s *AuthService) Refresh(refreshToken string, clientIP, userAgent string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, errors.New("refresh token required")
	}

	hash := hashRefreshToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid refresh token")
		}
		return nil, err
	}

	if stored.RevokedAt != nil {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}

	var user models.User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("user is disabled")
	}

	accessHours := s.getAccessTokenExpireHours()
	refreshHours := s.getRefreshTokenExpireHours()

	newAccessToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, accessHours)
	if err != nil {
		return nil, err
	}

	newRefreshToken, newRefreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newRefresh := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: newRefreshHash,
		ExpiresAt: now.Add(time.Duration(refreshHours) * time.Hour),
	}
	if clientIP != "" {
		newRefresh.CreatedByIP = clientIP
	}
	if userAgent != "" {
		newRefresh.UserAgent = userAgent
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newRefresh).Error; err != nil {
			return err
		}
		if err := tx.Model(&stored).Updates(map[string]interface{}{
			"revoked_at":           now,
			"replaced_by_token_id": newRefresh.ID,
		}).Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:     newAccessToken,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    newRefreshToken,
		RefreshExpireAt: newRefresh.ExpiresAt,
	}, nil
}

func (s *AuthService) RevokeRefreshToken(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	hash := hashRefreshToken(refreshToken)
	now := time.Now()
	if err := s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now).Error; err != nil {
		return err
	}

	return nil
}

func (s *AuthService) getAccessTokenExpireHours() int {
	defaultHours := s.jwtConfig.ExpireHour
	value := s.configSvc.GetWithDefault("access_token_expire_hours", strconv.Itoa(defaultHours))
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		return defaultHours
	}
	return hours
}

func (s *AuthService) getRefreshTokenExpireHours() int {
	value := s.configSvc.GetWithDefault("refresh_token_expire_hours", "168")
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		return 168
	}
	return hours
}

func generateRefreshToken() (token string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(randomBytes)
	tokenHash = hashRefreshToken(token)
	return token, tokenHash, nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) localAuth(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND auth_type = ?", email, "local").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, errors.New("user is disabled")
	}

	if !utils.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AuthService) ldapAuth(email, password string) (*models.User, error) {
	// Authenticate against LDAP
	ldapUser, err := s.ldapService.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	// Find or create user in database
	var user models.User
	err = s.db.Where("email = ? AND auth_type = ?", ldapUser.Email, "ldap").First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Create new LDAP user
		user = models.User{
			Email:    ldapUser.Email,
			Name:     ldapUser.Name,
			Role:     "member",
			AuthType: "ldap",
			IsActive: true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, errors.New("user is disabled")
	}

	// Update user info from LDAP
	user.Name = ldapUser.Name
	s.db.Save(&user)

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateAdminIfNotExists creates default admin user if not exists
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)

	if count == 0 {
		hashedPassword, err := utils.HashPassword("password123")
		if err != nil {
			return err
		}

		admin := models.User{
			Email:    "admin@collabtrack.com",
			Password: hashedPassword,
			Name:     "Administrator",
			Role:     "admin",
			AuthType: "local",
			IsActive: true,
		}

		return s.db.Create(&admin).Error
	}

	return nil
}

func (s *AuthService) IsLDAPEnabled() bool {
	return s.ldapService.IsEnabled()
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}

	if user.AuthType != "local" {
		return errors.New("LDAP users cannot change password here")
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return errors.New("incorrect old password")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.db.Save(&user).Error
}
