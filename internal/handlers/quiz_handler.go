package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	exportService services.ExportService
	validator     *validator.Validator
}

func NewQuizHandler(
	quizService services.QuizService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		exportService: exportService,
		validator:     validator,
	}
}

// CreateQuiz creates a new quiz
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body services.CreateQuizRequest true "Quiz data"
// @Success 201 {object} services.QuizResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
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

	h.LogRequest(c, "Creating quiz", "subject_id", req.SubjectID, "division_id", req.DivisionID)

	quiz, err := h.quizService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz retrieves a quiz by ID
// @Summary Get quiz
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} services.QuizResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz updates an existing quiz
// @Summary Update quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param quiz body services.UpdateQuizRequest true "Quiz update data"
// @Success 200 {object} services.QuizResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateQuizRequest
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

	h.LogRequest(c, "Updating quiz", "quiz_id", id)

	quiz, err := h.quizService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz deletes a quiz
// @Summary Delete quiz
// @Tags quizzes
// @Param id path uint true "Quiz ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Deleting quiz", "quiz_id", id)

	if err := h.quizService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListQuizzes lists quizzes with filters
// @Summary List quizzes
// @Description Lists quizzes; non-admin callers without explicit filters see only their own
// @Tags quizzes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param quiz_type query string false "Quiz type (quiz, assignment, sliptest)"
// @Param subject_id query uint false "Subject ID"
// @Param division_id query uint false "Division ID"
// @Param is_public query bool false "Public quizzes only"
// @Success 200 {object} services.QuizListResponse
// @Failure 500 {object} ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	filters := h.parseQuizFilters(c)
	quizzes, err := h.quizService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// AddQuestionToQuiz links a single question to a quiz
// @Summary Add question to quiz
// @Description Links a question with the next sequential question number; already-linked questions are skipped
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param question_id path uint true "Question ID"
// @Success 200 {object} services.AddQuestionsResult
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions/{question_id} [post]
func (h *QuizHandler) AddQuestionToQuiz(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Adding question to quiz", "quiz_id", quizID, "question_id", questionID)

	result, err := h.quizService.AddQuestion(c.Request.Context(), quizID, questionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddQuestionsToQuiz links multiple questions to a quiz in one transaction
// @Summary Add questions to quiz (batch)
// @Description Links questions sequentially in request order; duplicates are reported as skipped
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param request body services.AddQuestionsRequest true "Question IDs"
// @Success 200 {object} services.AddQuestionsResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions [post]
func (h *QuizHandler) AddQuestionsToQuiz(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	var req services.AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Adding questions to quiz", "quiz_id", quizID, "count", len(req.QuestionIDs))

	result, err := h.quizService.AddQuestions(c.Request.Context(), quizID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetQuizQuestions lists a quiz's active questions without answers
// @Summary Get quiz questions
// @Description Student-facing view; answers and grading baselines are hidden
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {array} services.QuestionResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions [get]
func (h *QuizHandler) GetQuizQuestions(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	questions, err := h.quizService.GetQuizQuestions(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuizQuestionsByState buckets a quiz's questions by lifecycle state
// @Summary Get quiz questions by state
// @Description Authoring view grouped into active, draft and edited buckets with a summary
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param include_drafts query bool false "Include the draft bucket" default(false)
// @Success 200 {object} services.QuizQuestionsByStateResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions/states [get]
func (h *QuizHandler) GetQuizQuestionsByState(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	includeDrafts := false
	if v := h.parseBoolQuery(c, "include_drafts"); v != nil {
		includeDrafts = *v
	}

	response, err := h.quizService.GetQuizQuestionsByState(c.Request.Context(), quizID, userID, includeDrafts)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// PublishQuiz publishes a quiz to a division
// @Summary Publish quiz
// @Description Snapshots the quiz's active questions, fans out a response row per current student and optionally links a task
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param request body services.PublishQuizRequest true "Publish data"
// @Success 201 {object} services.PublishResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quizzes/{id}/publish [post]
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	var req services.PublishQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.QuizID = quizID

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Publishing quiz", "quiz_id", quizID, "division_id", req.DivisionID)

	result, err := h.quizService.Publish(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetPublishedQuizzesByDivision lists published quizzes for a division
// @Summary Get published quizzes by division
// @Tags quizzes
// @Produce json
// @Param division_id path uint true "Division ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /quizzes/published/division/{division_id} [get]
func (h *QuizHandler) GetPublishedQuizzesByDivision(c *gin.Context) {
	divisionID := h.parseIDParam(c, "division_id")
	if divisionID == 0 {
		return
	}

	limit, offset := h.parsePagination(c)

	published, total, err := h.quizService.GetPublishedByDivision(c.Request.Context(), divisionID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"published_quizzes": published,
		"total":             total,
		"page":              (offset / max(limit, 1)) + 1,
		"size":              limit,
	})
}

// ExportQuizQuestions downloads the authoring view of a quiz as an xlsx file
// @Summary Export quiz questions
// @Description Renders the quiz's questions grouped by state into an xlsx workbook; owner and admins only
// @Tags quizzes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Quiz ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportQuizQuestions(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Exporting quiz questions", "quiz_id", quizID)

	data, filename, err := h.exportService.ExportQuizQuestions(c.Request.Context(), quizID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Helper methods

func (h *QuizHandler) parseQuizFilters(c *gin.Context) repositories.QuizFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.QuizFilters{
		Limit:      limit,
		Offset:     offset,
		SubjectID:  h.parseUintQuery(c, "subject_id"),
		DivisionID: h.parseUintQuery(c, "division_id"),
		SchoolID:   h.parseUintQuery(c, "school_id"),
		IsPublic:   h.parseBoolQuery(c, "is_public"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if quizType := c.Query("quiz_type"); quizType != "" {
		qt := models.QuizType(quizType)
		filters.QuizType = &qt
	}
	if authorID := c.Query("author_id"); authorID != "" {
		filters.AuthorID = &authorID
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
