package handlers

import (
	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns paginated projects visible to the caller
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.projectService.List(userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a project by ID
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.GetByID(id, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, project)
}

// Create creates a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.Create(&req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, project)
}

// Update updates a project
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	project, err := h.projectService.Update(id, &req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, project)
}

// Delete deletes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.projectService.Delete(id, userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted successfully"})
}

// ListMembers returns a project's members
// GET /api/projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	members, err := h.projectService.ListMembers(id, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, members)
}

// InviteMember invites a user into a project by email
// POST /api/projects/:id/members
func (h *ProjectHandler) InviteMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	invite, err := h.projectService.InviteMember(id, userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, invite)
}

// RemoveMember removes a member from a project
// DELETE /api/projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.projectService.RemoveMember(id, targetID, userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed successfully"})
}

// UpdateMemberRole changes a member's role
// PUT /api/projects/:id/members/:userId
func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req services.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	member, err := h.projectService.UpdateMemberRole(id, targetID, userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, member)
}
