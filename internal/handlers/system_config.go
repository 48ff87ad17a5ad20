package handlers

import (
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type SystemConfigHandler struct {
	configService *services.SystemConfigService
}

func NewSystemConfigHandler(configService *services.SystemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{configService: configService}
}

// GetLDAPConfig returns the LDAP settings. Admin only.
// GET /api/system-config/ldap
func (h *SystemConfigHandler) GetLDAPConfig(c *gin.Context) {
	response.Success(c, h.configService.GetLDAPConfig())
}

// UpdateLDAPConfig updates the LDAP settings. Admin only.
// PUT /api/system-config/ldap
func (h *SystemConfigHandler) UpdateLDAPConfig(c *gin.Context) {
	var req services.UpdateLDAPConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.configService.UpdateLDAPConfig(&req); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, h.configService.GetLDAPConfig())
}
