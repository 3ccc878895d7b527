package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

// CatalogHandler exposes the academic structure: schools, boards, grades,
// sections, subjects, divisions, topics and people registration.
type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
	validator      *validator.Validator
}

func NewCatalogHandler(
	catalogService services.CatalogService,
	validator *validator.Validator,
	logger utils.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
		validator:      validator,
	}
}

// CreateSchool creates a new school
// @Summary Create school
// @Tags catalog
// @Accept json
// @Produce json
// @Param school body services.CreateSchoolRequest true "School data"
// @Success 201 {object} models.School
// @Failure 400 {object} ErrorResponse
// @Router /schools [post]
func (h *CatalogHandler) CreateSchool(c *gin.Context) {
	var req services.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.LogRequest(c, "Creating school", "name", req.Name)

	school, err := h.catalogService.CreateSchool(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, school)
}

// ListSchools lists schools
// @Summary List schools
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /schools [get]
func (h *CatalogHandler) ListSchools(c *gin.Context) {
	limit, offset := h.parsePagination(c)

	schools, total, err := h.catalogService.ListSchools(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"schools": schools,
		"total":   total,
		"page":    (offset / max(limit, 1)) + 1,
		"size":    limit,
	})
}

// CreateBoard creates an education board
// @Summary Create board
// @Tags catalog
// @Accept json
// @Produce json
// @Param board body services.CreateBoardRequest true "Board data"
// @Success 201 {object} models.Board
// @Failure 400 {object} ErrorResponse
// @Router /boards [post]
func (h *CatalogHandler) CreateBoard(c *gin.Context) {
	var req services.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	board, err := h.catalogService.CreateBoard(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

// ListBoards lists education boards
// @Summary List boards
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Board
// @Router /boards [get]
func (h *CatalogHandler) ListBoards(c *gin.Context) {
	boards, err := h.catalogService.ListBoards(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, boards)
}

// CreateGrade creates a grade
// @Summary Create grade
// @Tags catalog
// @Accept json
// @Produce json
// @Param grade body services.CreateGradeRequest true "Grade data"
// @Success 201 {object} models.Grade
// @Failure 400 {object} ErrorResponse
// @Router /grades [post]
func (h *CatalogHandler) CreateGrade(c *gin.Context) {
	var req services.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	grade, err := h.catalogService.CreateGrade(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, grade)
}

// ListGrades lists grades
// @Summary List grades
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Grade
// @Router /grades [get]
func (h *CatalogHandler) ListGrades(c *gin.Context) {
	grades, err := h.catalogService.ListGrades(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

// CreateSection creates a section
// @Summary Create section
// @Tags catalog
// @Accept json
// @Produce json
// @Param section body services.CreateSectionRequest true "Section data"
// @Success 201 {object} models.Section
// @Failure 400 {object} ErrorResponse
// @Router /sections [post]
func (h *CatalogHandler) CreateSection(c *gin.Context) {
	var req services.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	section, err := h.catalogService.CreateSection(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

// ListSections lists sections
// @Summary List sections
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Section
// @Router /sections [get]
func (h *CatalogHandler) ListSections(c *gin.Context) {
	sections, err := h.catalogService.ListSections(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sections)
}

// CreateSubject creates a subject
// @Summary Create subject
// @Tags catalog
// @Accept json
// @Produce json
// @Param subject body services.CreateSubjectRequest true "Subject data"
// @Success 201 {object} models.Subject
// @Failure 400 {object} ErrorResponse
// @Router /subjects [post]
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var req services.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	subject, err := h.catalogService.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// ListSubjects lists subjects
// @Summary List subjects
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Subject
// @Router /subjects [get]
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.catalogService.ListSubjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// CreateDivision creates a division
// @Summary Create division
// @Description Creates a grade-section-school division for an academic year
// @Tags catalog
// @Accept json
// @Produce json
// @Param division body services.CreateDivisionRequest true "Division data"
// @Success 201 {object} models.Division
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /divisions [post]
func (h *CatalogHandler) CreateDivision(c *gin.Context) {
	var req services.CreateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.LogRequest(c, "Creating division", "grade_id", req.GradeID, "section_id", req.SectionID)

	division, err := h.catalogService.CreateDivision(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, division)
}

// GetDivision retrieves a division with its grade, section and school
// @Summary Get division
// @Tags catalog
// @Produce json
// @Param id path uint true "Division ID"
// @Success 200 {object} models.Division
// @Failure 404 {object} ErrorResponse
// @Router /divisions/{id} [get]
func (h *CatalogHandler) GetDivision(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	division, err := h.catalogService.GetDivision(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, division)
}

// ListDivisions lists divisions with filters
// @Summary List divisions
// @Tags catalog
// @Produce json
// @Param school_id query uint false "School ID"
// @Param grade_id query uint false "Grade ID"
// @Param academic_year query string false "Academic year (YYYY-YYYY)"
// @Success 200 {object} map[string]interface{}
// @Router /divisions [get]
func (h *CatalogHandler) ListDivisions(c *gin.Context) {
	limit, offset := h.parsePagination(c)

	filters := repositories.DivisionFilters{
		Limit:    limit,
		Offset:   offset,
		SchoolID: h.parseUintQuery(c, "school_id"),
		GradeID:  h.parseUintQuery(c, "grade_id"),
	}
	if year := c.Query("academic_year"); year != "" {
		filters.AcademicYear = &year
	}

	divisions, total, err := h.catalogService.ListDivisions(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"divisions": divisions,
		"total":     total,
		"page":      (offset / max(limit, 1)) + 1,
		"size":      limit,
	})
}

// AssignSubjectToDivision links a subject to a division
// @Summary Assign subject to division
// @Tags catalog
// @Accept json
// @Produce json
// @Param assignment body services.DivisionSubjectRequest true "Assignment data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /divisions/subjects [post]
func (h *CatalogHandler) AssignSubjectToDivision(c *gin.Context) {
	var req services.DivisionSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.LogRequest(c, "Assigning subject to division", "division_id", req.DivisionID, "subject_id", req.SubjectID)

	if err := h.catalogService.AssignSubjectToDivision(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Subject assigned to division successfully",
	})
}

// CreateSubjectTopic creates a curriculum topic
// @Summary Create subject topic
// @Tags catalog
// @Accept json
// @Produce json
// @Param topic body services.CreateSubjectTopicRequest true "Topic data"
// @Success 201 {object} models.SubjectTopic
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /topics [post]
func (h *CatalogHandler) CreateSubjectTopic(c *gin.Context) {
	var req services.CreateSubjectTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	topic, err := h.catalogService.CreateSubjectTopic(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, topic)
}

// ListSubjectTopics lists curriculum topics with filters
// @Summary List subject topics
// @Tags catalog
// @Produce json
// @Param subject_id query uint false "Subject ID"
// @Param board_id query uint false "Board ID"
// @Param grade_id query uint false "Grade ID"
// @Success 200 {object} map[string]interface{}
// @Router /topics [get]
func (h *CatalogHandler) ListSubjectTopics(c *gin.Context) {
	limit, offset := h.parsePagination(c)

	filters := repositories.TopicFilters{
		Limit:     limit,
		Offset:    offset,
		SubjectID: h.parseUintQuery(c, "subject_id"),
		BoardID:   h.parseUintQuery(c, "board_id"),
		GradeID:   h.parseUintQuery(c, "grade_id"),
	}

	topics, total, err := h.catalogService.ListSubjectTopics(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"topics": topics,
		"total":  total,
		"page":   (offset / max(limit, 1)) + 1,
		"size":   limit,
	})
}

// RegisterTeacher creates a teacher profile for a directory user
// @Summary Register teacher
// @Tags catalog
// @Accept json
// @Produce json
// @Param teacher body services.RegisterTeacherRequest true "Teacher data"
// @Success 201 {object} models.Teacher
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers [post]
func (h *CatalogHandler) RegisterTeacher(c *gin.Context) {
	var req services.RegisterTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.LogRequest(c, "Registering teacher", "school_id", req.SchoolID)

	teacher, err := h.catalogService.RegisterTeacher(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

// RegisterStudent creates a student profile for a directory user
// @Summary Register student
// @Tags catalog
// @Accept json
// @Produce json
// @Param student body services.RegisterStudentRequest true "Student data"
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /students [post]
func (h *CatalogHandler) RegisterStudent(c *gin.Context) {
	var req services.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.LogRequest(c, "Registering student", "school_id", req.SchoolID)

	student, err := h.catalogService.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// AssignStudentToDivision places a student into a division
// @Summary Assign student to division
// @Tags catalog
// @Accept json
// @Produce json
// @Param assignment body services.AssignStudentDivisionRequest true "Assignment data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/divisions [post]
func (h *CatalogHandler) AssignStudentToDivision(c *gin.Context) {
	var req services.AssignStudentDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.LogRequest(c, "Assigning student to division", "student_id", req.StudentID, "division_id", req.DivisionID)

	if err := h.catalogService.AssignStudentToDivision(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Student assigned to division successfully",
	})
}

// AssignTeacherSubject records that a teacher teaches a subject in a division
// @Summary Assign teacher to subject and division
// @Tags catalog
// @Accept json
// @Produce json
// @Param assignment body services.AssignTeacherSubjectRequest true "Assignment data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/subjects [post]
func (h *CatalogHandler) AssignTeacherSubject(c *gin.Context) {
	var req services.AssignTeacherSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.LogRequest(c, "Assigning teacher subject", "teacher_id", req.TeacherID, "subject_id", req.SubjectID)

	if err := h.catalogService.AssignTeacherSubject(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Teacher assignment recorded successfully",
	})
}
