package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/api"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskService is the behaviour the task endpoints need
type TaskService interface {
	ListActive(ctx context.Context, skip, limit int) ([]model.Task, error)
	ListArchived(ctx context.Context, skip, limit int) ([]model.Task, error)
	Create(ctx context.Context, req api.TaskCreateRequest) (*model.Task, error)
	Update(ctx context.Context, id int64, req api.TaskUpdateRequest) (*model.Task, error)
	Reorder(ctx context.Context, status string, ids []int64) ([]model.Task, error)
	Delete(ctx context.Context, id int64) (*model.Task, error)
	Restore(ctx context.Context, id int64) (*model.Task, error)
	PurgeArchived(ctx context.Context) (int64, error)
}

type TaskHandler struct {
	tasks TaskService
	log   *logger.Logger
}

func NewTaskHandler(tasks TaskService, log *logger.Logger) *TaskHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &TaskHandler{tasks: tasks, log: log.WithComponent("task_handler")}
}

// RegisterRoutes mounts the task endpoints on r
func (h *TaskHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/tasks/", h.ListActive)
	r.POST("/tasks/", h.Create)
	r.GET("/tasks/archived", h.ListArchived)
	r.DELETE("/tasks/archived", h.PurgeArchived)
	r.PUT("/tasks/reorder", h.Reorder)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	r.PUT("/tasks/:id/restore", h.Restore)
}

// ListActive godoc
// @Summary  List tasks on the board
// @Tags     tasks
// @Produce  json
// @Param    skip   query  int  false  "Offset"
// @Param    limit  query  int  false  "Page size"  default(100)
// @Success  200  {array}   api.Task
// @Failure  422  {object}  api.ErrorResponse
// @Router   /tasks/ [get]
func (h *TaskHandler) ListActive(c *gin.Context) {
	skip, limit, ok := pagination(c, service.DefaultActiveLimit)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListActive(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.FromModels(tasks))
}

// ListArchived godoc
// @Summary  List archived tasks, most recently archived first
// @Tags     tasks
// @Produce  json
// @Param    skip   query  int  false  "Offset"
// @Param    limit  query  int  false  "Page size"  default(200)
// @Success  200  {array}   api.Task
// @Failure  422  {object}  api.ErrorResponse
// @Router   /tasks/archived [get]
func (h *TaskHandler) ListArchived(c *gin.Context) {
	skip, limit, ok := pagination(c, service.DefaultArchivedLimit)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListArchived(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.FromModels(tasks))
}

// Create godoc
// @Summary  Create a task
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Param    task  body      api.TaskCreateRequest  true  "New task"
// @Success  200   {object}  api.Task
// @Failure  422   {object}  api.ErrorResponse
// @Router   /tasks/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req api.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid request: "+err.Error())
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.FromModel(*task))
}

// Update godoc
// @Summary  Update fields of a task
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Param    id    path      int                    true  "Task ID"
// @Param    task  body      api.TaskUpdateRequest  true  "Fields to change"
// @Success  200   {object}  api.Task
// @Failure  404   {object}  api.ErrorResponse
// @Failure  422   {object}  api.ErrorResponse
// @Router   /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req api.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid request: "+err.Error())
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.FromModel(*task))
}

// Reorder godoc
// @Summary  Persist the manual order of one column
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Param    order  body      api.ReorderRequest  true  "Column and ordered ids"
// @Success  200    {array}   api.Task
// @Failure  422    {object}  api.ErrorResponse
// @Router   /tasks/reorder [put]
func (h *TaskHandler) Reorder(c *gin.Context) {
	var req api.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid request: "+err.Error())
		return
	}

	tasks, err := h.tasks.Reorder(c.Request.Context(), req.Status, req.OrderedIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.FromModels(tasks))
}

// Delete godoc
// @Summary  Archive an active task or remove an archived one
// @Tags     tasks
// @Produce  json
// @Param    id   path      int  true  "Task ID"
// @Success  200  {object}  api.Task
// @Failure  404  {object}  api.ErrorResponse
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.FromModel(*task))
}

// Restore godoc
// @Summary  Move an archived task back to To Do
// @Tags     tasks
// @Produce  json
// @Param    id   path      int  true  "Task ID"
// @Success  200  {object}  api.Task
// @Failure  404  {object}  api.ErrorResponse
// @Router   /tasks/{id}/restore [put]
func (h *TaskHandler) Restore(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.FromModel(*task))
}

// PurgeArchived godoc
// @Summary  Permanently delete all archived tasks
// @Tags     tasks
// @Produce  json
// @Success  200  {object}  api.PurgeResponse
// @Router   /tasks/archived [delete]
func (h *TaskHandler) PurgeArchived(c *gin.Context) {
	count, err := h.tasks.PurgeArchived(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.PurgeResponse{DeletedCount: count})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid task id")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context, defaultLimit int) (int, int, bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid skip")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 0 {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid limit")
		return 0, 0, false
	}
	return skip, limit, true
}
