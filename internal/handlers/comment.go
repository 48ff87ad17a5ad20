package handlers

import (
	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List returns a task's comments
// GET /api/tasks/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	comments, err := h.commentService.List(taskID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, comments)
}

// Create adds a comment to a task
// POST /api/tasks/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	comment, err := h.commentService.Create(taskID, userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, comment)
}

// Update edits a comment
// PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	comment, err := h.commentService.Update(id, userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, comment)
}

// Delete removes a comment
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.commentService.Delete(id, userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "comment deleted successfully"})
}
