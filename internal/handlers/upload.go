package handlers

import (
	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload stores a file attachment on a task
// POST /api/tasks/:id/attachments
func (h *UploadHandler) Upload(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	userID := middleware.GetUserID(c)
	attachment, err := h.uploadService.Upload(taskID, userID, file)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, attachment)
}

// List returns a task's attachments
// GET /api/tasks/:id/attachments
func (h *UploadHandler) List(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	attachments, err := h.uploadService.List(taskID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, attachments)
}

// Delete removes an attachment
// DELETE /api/attachments/:id
func (h *UploadHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.uploadService.Delete(id, userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "attachment deleted successfully"})
}
