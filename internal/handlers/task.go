package handlers

import (
	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns paginated tasks visible to the caller
// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	var req services.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.taskService.List(userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a task by ID
// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	task, err := h.taskService.GetByID(id, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, task)
}

// Create creates a new task
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	task, err := h.taskService.Create(&req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, task)
}

// Update updates a task
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	task, err := h.taskService.Update(id, &req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, task)
}

// Delete deletes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.taskService.Delete(id, userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "task deleted successfully"})
}

// AddTimeEntry logs hours against a task
// POST /api/tasks/:id/time-entries
func (h *TaskHandler) AddTimeEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.AddTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	entry, err := h.taskService.AddTimeEntry(id, userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, entry)
}

// ListTimeEntries returns a task's time entries
// GET /api/tasks/:id/time-entries
func (h *TaskHandler) ListTimeEntries(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	entries, err := h.taskService.ListTimeEntries(id, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, entries)
}
