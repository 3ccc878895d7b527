package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	validator       *validator.Validator
}

func NewQuestionHandler(
	questionService services.QuestionService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		validator:       validator,
	}
}

// CreateQuestion creates a new question
// @Summary Create question
// @Description Creates a question; objective questions must carry choices and an answer
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} services.QuestionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionRequest
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

	h.LogRequest(c, "Creating question", "subject_id", req.SubjectID)

	question, err := h.questionService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Description Retrieves a question; answers are visible only to the author and admins
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} services.QuestionResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// UpdateQuestion updates an existing question
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Question update data"
// @Success 200 {object} services.QuestionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateQuestionRequest
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

	h.LogRequest(c, "Updating question", "question_id", id)

	question, err := h.questionService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question
// @Summary Delete question
// @Tags questions
// @Param id path uint true "Question ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", id)

	if err := h.questionService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListQuestions lists questions with filters
// @Summary List questions
// @Description Lists questions; non-admin callers see only their own
// @Tags questions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param state query string false "Question state (active, draft, edited)"
// @Param subject_id query uint false "Subject ID"
// @Param division_id query uint false "Division ID"
// @Success 200 {object} services.QuestionListResponse
// @Failure 500 {object} ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	filters := h.parseQuestionFilters(c)
	questions, err := h.questionService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// SearchQuestions searches questions by title and body
// @Summary Search questions
// @Tags questions
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} services.QuestionListResponse
// @Failure 400 {object} ErrorResponse
// @Router /questions/search [get]
func (h *QuestionHandler) SearchQuestions(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Search query parameter 'q' is required",
		})
		return
	}

	userID := h.getUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Searching questions", "query", query)

	filters := h.parseQuestionFilters(c)
	questions, err := h.questionService.Search(c.Request.Context(), query, filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestionsByAuthor lists questions created by a specific user
// @Summary Get questions by author
// @Tags questions
// @Produce json
// @Param author_id path string true "Author user ID"
// @Success 200 {object} services.QuestionListResponse
// @Failure 400 {object} ErrorResponse
// @Router /questions/author/{author_id} [get]
func (h *QuestionHandler) GetQuestionsByAuthor(c *gin.Context) {
	authorID := ParseStringIDParam(c, "author_id")
	if authorID == "" {
		return
	}

	filters := h.parseQuestionFilters(c)
	questions, err := h.questionService.GetByAuthor(c.Request.Context(), authorID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// Helper methods

func (h *QuestionHandler) parseQuestionFilters(c *gin.Context) repositories.QuestionFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.QuestionFilters{
		Limit:      limit,
		Offset:     offset,
		SubjectID:  h.parseUintQuery(c, "subject_id"),
		DivisionID: h.parseUintQuery(c, "division_id"),
		SchoolID:   h.parseUintQuery(c, "school_id"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if state := c.Query("state"); state != "" {
		questionState := models.QuestionState(state)
		filters.State = &questionState
	}
	if topic := c.Query("topic"); topic != "" {
		filters.Topic = &topic
	}

	return filters
}
