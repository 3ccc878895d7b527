package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type ScheduleHandler struct {
	BaseHandler
	scheduleService services.ScheduleService
	validator       *validator.Validator
}

func NewScheduleHandler(
	scheduleService services.ScheduleService,
	validator *validator.Validator,
	logger utils.Logger,
) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler:     NewBaseHandler(logger),
		scheduleService: scheduleService,
		validator:       validator,
	}
}

// CreateSchedule creates a new class schedule
// @Summary Create class schedule
// @Description Creates a class schedule after checking the teacher's assignment and time slot
// @Tags schedules
// @Accept json
// @Produce json
// @Param schedule body services.CreateScheduleRequest true "Schedule data"
// @Success 201 {object} services.ScheduleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /schedules [post]
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req services.CreateScheduleRequest
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

	h.LogRequest(c, "Creating class schedule", "teacher_id", req.TeacherID, "division_id", req.DivisionID)

	schedule, err := h.scheduleService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// GetSchedule retrieves a class schedule by ID
// @Summary Get class schedule
// @Tags schedules
// @Produce json
// @Param id path uint true "Schedule ID"
// @Success 200 {object} services.ScheduleResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	schedule, err := h.scheduleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule deletes a class schedule
// @Summary Delete class schedule
// @Tags schedules
// @Param id path uint true "Schedule ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Deleting class schedule", "schedule_id", id)

	if err := h.scheduleService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSchedules lists class schedules with filters
// @Summary List class schedules
// @Tags schedules
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param teacher_id query uint false "Teacher ID"
// @Param division_id query uint false "Division ID"
// @Param subject_id query uint false "Subject ID"
// @Param date query string false "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} services.ScheduleListResponse
// @Failure 500 {object} ErrorResponse
// @Router /schedules [get]
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	filters := h.parseScheduleFilters(c)

	schedules, err := h.scheduleService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// GetSchedulesByTeacher lists schedules for a teacher
// @Summary Get schedules by teacher
// @Tags schedules
// @Produce json
// @Param teacher_id path uint true "Teacher ID"
// @Success 200 {object} services.ScheduleListResponse
// @Failure 400 {object} ErrorResponse
// @Router /schedules/teacher/{teacher_id} [get]
func (h *ScheduleHandler) GetSchedulesByTeacher(c *gin.Context) {
	teacherID := h.parseIDParam(c, "teacher_id")
	if teacherID == 0 {
		return
	}

	filters := h.parseScheduleFilters(c)
	schedules, err := h.scheduleService.GetByTeacher(c.Request.Context(), teacherID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// GetSchedulesByDivision lists schedules for a division
// @Summary Get schedules by division
// @Tags schedules
// @Produce json
// @Param division_id path uint true "Division ID"
// @Success 200 {object} services.ScheduleListResponse
// @Failure 400 {object} ErrorResponse
// @Router /schedules/division/{division_id} [get]
func (h *ScheduleHandler) GetSchedulesByDivision(c *gin.Context) {
	divisionID := h.parseIDParam(c, "division_id")
	if divisionID == 0 {
		return
	}

	filters := h.parseScheduleFilters(c)
	schedules, err := h.scheduleService.GetByDivision(c.Request.Context(), divisionID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// GetCurrentClassForTeacher resolves the class a teacher is in right now
// @Summary Get current class for teacher
// @Description Resolves the schedule whose time slot covers the given instant, defaulting to now
// @Tags schedules
// @Produce json
// @Param teacher_id path uint true "Teacher ID"
// @Param at query string false "Instant (RFC3339), defaults to now"
// @Success 200 {object} services.ScheduleResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/teacher/{teacher_id}/current [get]
func (h *ScheduleHandler) GetCurrentClassForTeacher(c *gin.Context) {
	teacherID := h.parseIDParam(c, "teacher_id")
	if teacherID == 0 {
		return
	}

	at := h.parseAtQuery(c)

	h.LogRequest(c, "Resolving current class for teacher", "teacher_id", teacherID)

	schedule, err := h.scheduleService.CurrentClassForTeacher(c.Request.Context(), teacherID, at)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// GetCurrentClassForStudent resolves the class the calling student is in right now
// @Summary Get current class for the authenticated student
// @Tags schedules
// @Produce json
// @Param at query string false "Instant (RFC3339), defaults to now"
// @Success 200 {object} services.ScheduleResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/me/current [get]
func (h *ScheduleHandler) GetCurrentClassForStudent(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	at := h.parseAtQuery(c)

	h.LogRequest(c, "Resolving current class for student")

	schedule, err := h.scheduleService.CurrentClassForStudent(c.Request.Context(), userID, at)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// SetClassTopic tags a subject topic onto a class schedule
// @Summary Tag a topic onto a class schedule
// @Description Links a subject topic to a schedule; the topic must belong to the schedule's subject
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path uint true "Schedule ID"
// @Param topic body services.TopicTagRequest true "Topic tag data"
// @Success 201 {object} services.TopicTagResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id}/topics [post]
func (h *ScheduleHandler) SetClassTopic(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.TopicTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.ClassScheduleID = id

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Tagging class topic", "schedule_id", id, "subject_topic_id", req.SubjectTopicID)

	tag, err := h.scheduleService.SetClassTopic(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// GetClassTopics lists the topics tagged on a class schedule
// @Summary Get class topics
// @Tags schedules
// @Produce json
// @Param id path uint true "Schedule ID"
// @Success 200 {array} services.TopicTagResponse
// @Failure 404 {object} ErrorResponse
// @Router /schedules/{id}/topics [get]
func (h *ScheduleHandler) GetClassTopics(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	topics, err := h.scheduleService.GetClassTopics(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, topics)
}

// Helper methods

func (h *ScheduleHandler) parseScheduleFilters(c *gin.Context) repositories.ScheduleFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.ScheduleFilters{
		Limit:     limit,
		Offset:    offset,
		TeacherID:  h.parseUintQuery(c, "teacher_id"),
		DivisionID: h.parseUintQuery(c, "division_id"),
		SubjectID:  h.parseUintQuery(c, "subject_id"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		if date, err := time.Parse("2006-01-02", dateStr); err == nil {
			filters.Date = &date
		}
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

func (h *ScheduleHandler) parseAtQuery(c *gin.Context) time.Time {
	if atStr := c.Query("at"); atStr != "" {
		if at, err := time.Parse(time.RFC3339, atStr); err == nil {
			return at
		}
	}
	return time.Now()
}
