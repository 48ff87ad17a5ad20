package handlers

import (
	"strconv"

	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns paginated users. Admin only.
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.List(&req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, resp)
}

// Search finds users by name or email for member pickers
// GET /api/users/search
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, err := h.userService.Search(query, limit)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, users)
}

// GetByID returns a user by ID. Admin only.
// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, user)
}

// Create creates a user. Admin only.
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(&req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, user)
}

// Update updates a user. Admin only.
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(id, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, user)
}

// Delete deletes a user. Admin only.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "user deleted successfully"})
}

// UpdateProfile updates the caller's own profile
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, user)
}
