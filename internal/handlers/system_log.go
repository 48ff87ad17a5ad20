package handlers

import (
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type SystemLogHandler struct {
	logService *services.SystemLogService
}

func NewSystemLogHandler(logService *services.SystemLogService) *SystemLogHandler {
	return &SystemLogHandler{logService: logService}
}

// List returns paginated system logs. Admin only.
// GET /api/system-logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.logService.List(&req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, resp)
}

// GetModules returns distinct log module names. Admin only.
// GET /api/system-logs/modules
func (h *SystemLogHandler) GetModules(c *gin.Context) {
	modules, err := h.logService.GetModules()
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, modules)
}

// GetRetention returns the log retention setting. Admin only.
// GET /api/system-logs/retention
func (h *SystemLogHandler) GetRetention(c *gin.Context) {
	response.Success(c, gin.H{"retention_days": h.logService.GetRetentionDays()})
}

// SetRetention updates the log retention setting. Admin only.
// PUT /api/system-logs/retention
func (h *SystemLogHandler) SetRetention(c *gin.Context) {
	var req struct {
		RetentionDays int `json:"retention_days" binding:"required,min=1,max=365"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.logService.SetRetentionDays(req.RetentionDays); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"retention_days": req.RetentionDays})
}
