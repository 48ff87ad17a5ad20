package services

import (
	"testing"

	"github.com/collabtrack/collabtrack/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectInvite{},
		&models.Task{},
		&models.Comment{},
		&models.Notification{},
		&models.Attachment{},
		&models.TimeEntry{},
		&models.RefreshToken{},
		&models.SystemConfig{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Name:     name,
		Role:     "member",
		AuthType: "local",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func notificationCount(t *testing.T, db *gorm.DB, userID uint, notifType string) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, notifType).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}
