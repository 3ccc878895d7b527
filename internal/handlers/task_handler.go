package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type TaskHandler struct {
	BaseHandler
	taskService services.TaskService
	validator   *validator.Validator
}

func NewTaskHandler(
	taskService services.TaskService,
	validator *validator.Validator,
	logger utils.Logger,
) *TaskHandler {
	return &TaskHandler{
		BaseHandler: NewBaseHandler(logger),
		taskService: taskService,
		validator:   validator,
	}
}

// CreateTask creates a new teacher task
// @Summary Create task
// @Description Creates a task; quiz-backed types create their quiz in the same transaction
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body services.CreateTaskRequest true "Task data"
// @Success 201 {object} services.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Creating task", "task_type", req.TaskType, "division_id", req.DivisionID)

	task, err := h.taskService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask retrieves a task by ID
// @Summary Get task
// @Tags tasks
// @Produce json
// @Param id path uint true "Task ID"
// @Success 200 {object} services.TaskResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
// @Summary Delete task
// @Tags tasks
// @Param id path uint true "Task ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Deleting task", "task_id", id)

	if err := h.taskService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTasks lists tasks with filters
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param task_type query string false "Task type"
// @Param status query string false "Task status (active, completed)"
// @Param division_id query uint false "Division ID"
// @Success 200 {object} services.TaskListResponse
// @Failure 500 {object} ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filters := h.parseTaskFilters(c)

	tasks, err := h.taskService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTasksByTeacher lists tasks for a teacher
// @Summary Get tasks by teacher
// @Tags tasks
// @Produce json
// @Param teacher_id path uint true "Teacher ID"
// @Success 200 {object} services.TaskListResponse
// @Failure 400 {object} ErrorResponse
// @Router /tasks/teacher/{teacher_id} [get]
func (h *TaskHandler) GetTasksByTeacher(c *gin.Context) {
	teacherID := h.parseIDParam(c, "teacher_id")
	if teacherID == 0 {
		return
	}

	filters := h.parseTaskFilters(c)
	tasks, err := h.taskService.GetByTeacher(c.Request.Context(), teacherID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTaskStats retrieves task statistics for a teacher
// @Summary Get task statistics
// @Tags tasks
// @Produce json
// @Param teacher_id path uint true "Teacher ID"
// @Success 200 {object} repositories.TeacherTaskStats
// @Failure 400 {object} ErrorResponse
// @Router /tasks/teacher/{teacher_id}/stats [get]
func (h *TaskHandler) GetTaskStats(c *gin.Context) {
	teacherID := h.parseIDParam(c, "teacher_id")
	if teacherID == 0 {
		return
	}

	h.LogRequest(c, "Getting task stats", "teacher_id", teacherID)

	stats, err := h.taskService.GetStats(c.Request.Context(), teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Helper methods

func (h *TaskHandler) parseTaskFilters(c *gin.Context) repositories.TaskFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.TaskFilters{
		Limit:      limit,
		Offset:     offset,
		TeacherID:  h.parseUintQuery(c, "teacher_id"),
		DivisionID: h.parseUintQuery(c, "division_id"),
		SubjectID:  h.parseUintQuery(c, "subject_id"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if taskType := c.Query("task_type"); taskType != "" {
		tt := models.TaskType(taskType)
		filters.TaskType = &tt
	}
	if status := c.Query("status"); status != "" {
		ts := models.TaskStatus(status)
		filters.Status = &ts
	}
	if fromStr := c.Query("date_from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			filters.DateFrom = &from
		}
	}
	if toStr := c.Query("date_to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			filters.DateTo = &to
		}
	}

	return filters
}
