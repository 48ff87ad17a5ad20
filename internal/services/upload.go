package services

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/collabtrack/collabtrack/internal/config"
	"github.com/collabtrack/collabtrack/internal/models"
	"github.com/collabtrack/collabtrack/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrFileTypeNotAllowed = errors.New("File type not allowed")
	ErrFileTooLarge       = errors.New("File too large")
)

type UploadService struct {
	db        *gorm.DB
	scope     *ScopeService
	notifySvc *NotificationService
	cfg       *config.UploadConfig
}

func NewUploadService(db *gorm.DB, scope *ScopeService, notifySvc *NotificationService, cfg *config.UploadConfig) *UploadService {
	return &UploadService{db: db, scope: scope, notifySvc: notifySvc, cfg: cfg}
}

func (s *UploadService) isAllowedType(mimeType string) bool {
	for _, allowed := range s.cfg.AllowedTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// Upload validates and stores a file for a task, records the attachment
// and notifies the task assignee.
func (s *UploadService) Upload(taskID, userID uint, file *multipart.FileHeader) (*models.Attachment, error) {
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

	mimeType := file.Header.Get("Content-Type")
	if !s.isAllowedType(mimeType) {
		return nil, ErrFileTypeNotAllowed
	}
	if file.Size > s.cfg.MaxSizeBytes {
		return nil, ErrFileTooLarge
	}

	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		return nil, err
	}

	// Random filename on disk, original name kept in the record
	ext := filepath.Ext(file.Filename)
	storedName := uuid.New().String() + ext
	dst := filepath.Join(s.cfg.Dir, storedName)

	if err := saveUploadedFile(file, dst); err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		Filename:     storedName,
		OriginalName: file.Filename,
		MimeType:     mimeType,
		Size:         file.Size,
		URL:          "/uploads/" + storedName,
		TaskID:       taskID,
		UploadedBy:   userID,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		os.Remove(dst)
		return nil, err
	}

	if task.AssignedTo != nil && *task.AssignedTo != userID {
		s.notifySvc.Notify(*task.AssignedTo, models.NotificationFileUploaded,
			"File uploaded",
			"A file was uploaded to task \""+task.Title+"\"",
			&task.ID)
	}

	return &attachment, nil
}

// List returns a task's attachments.
func (s *UploadService) List(taskID, userID uint) ([]models.Attachment, error) {
	if !s.scope.CanViewTask(taskID, userID) {
		return nil, ErrNotFound
	}

	var attachments []models.Attachment
	if err := s.db.
		Preload("Uploader").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Delete removes an attachment record and best-effort unlinks the file.
// Only the uploader or a project manager may delete.
func (s *UploadService) Delete(attachmentID, userID uint) error {
	var attachment models.Attachment
	if err := s.db.First(&attachment, attachmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !s.scope.CanViewTask(attachment.TaskID, userID) {
		return ErrNotFound
	}

	var task models.Task
	if err := s.db.First(&task, attachment.TaskID).Error; err != nil {
		return ErrNotFound
	}

	if !s.scope.CanDeleteAttachment(&attachment, task.ProjectID, userID) {
		return ErrNotFound
	}

	if err := s.db.Delete(&attachment).Error; err != nil {
		return err
	}

	path := filepath.Join(s.cfg.Dir, attachment.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", path).Msg("failed to remove attachment file")
	}

	return nil
}

func saveUploadedFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
