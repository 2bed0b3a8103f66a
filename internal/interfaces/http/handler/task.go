package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	enrichapp "github.com/rakuda/backend/internal/application/enrichment"
	"github.com/rakuda/backend/internal/domain/shared"
	"github.com/rakuda/backend/internal/interfaces/http/dto"
)

// TaskHandler handles enrichment task API endpoints
type TaskHandler struct {
	BaseHandler
	taskService *enrichapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *enrichapp.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/enrichment/tasks")
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/stats", h.Stats)
		tasks.GET("/review-queue", h.ReviewQueue)
		tasks.GET("/:id", h.Get)
		tasks.POST("/:id/execute", h.Execute)
		tasks.POST("/:id/approve", h.Approve)
		tasks.POST("/:id/reject", h.Reject)
		tasks.POST("/:id/retry", h.Retry)
	}
}

// taskID parses the :id path parameter
func (h *TaskHandler) taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create queues a listing for enrichment
func (h *TaskHandler) Create(c *gin.Context) {
	var req enrichapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, task)
}

// List returns tasks with pagination, optionally filtered by status
func (h *TaskHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, tasks, total, filter.Page, filter.PageSize)
}

// Get loads one task
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Execute runs a pending task through the enrichment pipeline
func (h *TaskHandler) Execute(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Execute(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Approve publishes a reviewed task
func (h *TaskHandler) Approve(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Reject declines a reviewed task
func (h *TaskHandler) Reject(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	// The reason is optional, so a missing body is fine.
	var req enrichapp.RejectTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Retry requeues a failed task
func (h *TaskHandler) Retry(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// ReviewQueue lists tasks awaiting human review
func (h *TaskHandler) ReviewQueue(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	tasks, err := h.taskService.ReviewQueue(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// Stats aggregates task counts by status
func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.taskService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
