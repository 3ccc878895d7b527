package services

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

// ===== REQUEST TYPES =====

type CreateScheduleRequest = validator.ScheduleCreateRequest
type TopicTagRequest = validator.TopicTagRequest
type CreateQuestionRequest = validator.QuestionCreateRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type CreateQuizRequest = validator.QuizCreateRequest
type UpdateQuizRequest = validator.QuizUpdateRequest
type AddQuestionsRequest = validator.AddQuestionsRequest
type PublishQuizRequest = validator.PublishQuizRequest
type CreateTaskRequest = validator.TaskCreateRequest
type TaskQuizRequest = validator.TaskQuizRequest

type CreateSchoolRequest = validator.SchoolCreateRequest
type CreateBoardRequest = validator.BoardCreateRequest
type CreateGradeRequest = validator.GradeCreateRequest
type CreateSectionRequest = validator.SectionCreateRequest
type CreateSubjectRequest = validator.SubjectCreateRequest
type CreateDivisionRequest = validator.DivisionCreateRequest
type DivisionSubjectRequest = validator.DivisionSubjectRequest
type CreateSubjectTopicRequest = validator.SubjectTopicCreateRequest
type RegisterTeacherRequest = validator.TeacherCreateRequest
type RegisterStudentRequest = validator.StudentCreateRequest
type AssignStudentDivisionRequest = validator.AssignStudentDivisionRequest
type AssignTeacherSubjectRequest = validator.AssignTeacherSubjectRequest

// ===== RESPONSE TYPES =====

// ScheduleResponse is a class schedule enriched with display names
type ScheduleResponse struct {
	ID           uint      `json:"id"`
	Period       int       `json:"period"`
	Date         time.Time `json:"date"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	SubjectID    uint      `json:"subject_id"`
	SubjectName  string    `json:"subject_name"`
	DivisionID   uint      `json:"division_id"`
	DivisionName string    `json:"division_name"`
	TeacherID    uint      `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type ScheduleListResponse struct {
	Schedules []*ScheduleResponse `json:"schedules"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Size      int                 `json:"size"`
}

// TopicTagResponse is a topic tag joined with schedule and topic details
type TopicTagResponse struct {
	ID              uint      `json:"id"`
	ClassScheduleID uint      `json:"class_schedule_id"`
	SubjectTopicID  uint      `json:"subject_topic_id"`
	Topic           string    `json:"topic"`
	SubTopic        *string   `json:"sub_topic,omitempty"`
	SubjectName     string    `json:"subject_name"`
	BoardName       string    `json:"board_name"`
	GradeName       string    `json:"grade_name"`
	TeacherName     string    `json:"teacher_name"`
	DivisionName    string    `json:"division_name"`
	ScheduleDate    time.Time `json:"schedule_date"`
	Period          int       `json:"period"`
}

// QuestionResponse is the authoring view of a question. BaselineAnswer and
// Answer are cleared for public reads.
type QuestionResponse struct {
	ID             uint                 `json:"id"`
	QuestionNumber int                  `json:"question_number,omitempty"`
	Title          string               `json:"title"`
	Body           string               `json:"body"`
	IsObjective    bool                 `json:"is_objective"`
	State          models.QuestionState `json:"state"`
	ChoiceBody     datatypes.JSON       `json:"choice_body,omitempty"`
	Answer         *string              `json:"answer,omitempty"`
	BaselineAnswer *string              `json:"baseline_answer,omitempty"`
	Topic          *string              `json:"topic,omitempty"`
	SubTopic       *string              `json:"sub_topic,omitempty"`
	SubjectID      uint                 `json:"subject_id"`
	DivisionID     uint                 `json:"division_id"`
	SchoolID       uint                 `json:"school_id"`
	CreatedBy      string               `json:"created_by"`
	CreatedAt      time.Time            `json:"created_at"`
}

type QuestionListResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Size      int                 `json:"size"`
}

type QuizResponse struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	StartDate    time.Time       `json:"start_date"`
	Duration     int             `json:"duration"`
	DueDate      time.Time       `json:"due_date"`
	Topic        *string         `json:"topic,omitempty"`
	SubTopic     *string         `json:"sub_topic,omitempty"`
	QuizType     models.QuizType `json:"quiz_type"`
	IsPublic     bool            `json:"is_public"`
	Instructions datatypes.JSON  `json:"instructions,omitempty"`
	TotalMarks   *int            `json:"total_marks,omitempty"`
	SubjectID    uint            `json:"subject_id"`
	DivisionID   uint            `json:"division_id"`
	SchoolID     uint            `json:"school_id"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

type QuizListResponse struct {
	Quizzes []*QuizResponse `json:"quizzes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

// AddQuestionsResult reports which questions were linked and which were
// already present
type AddQuestionsResult struct {
	Added   []uint `json:"added"`
	Skipped []uint `json:"skipped"`
}

// QuestionStateSummary counts questions per state for a quiz
type QuestionStateSummary struct {
	Active int `json:"active"`
	Draft  int `json:"draft"`
	Edited int `json:"edited"`
	Total  int `json:"total"`
}

// QuizQuestionsByStateResponse buckets a quiz's questions by state
type QuizQuestionsByStateResponse struct {
	Active  []*QuestionResponse  `json:"active"`
	Draft   []*QuestionResponse  `json:"draft,omitempty"`
	Edited  []*QuestionResponse  `json:"edited"`
	Summary QuestionStateSummary `json:"summary"`
}

// PublishResponse reports the outcome of a quiz publication
type PublishResponse struct {
	PublishedQuizID  uint            `json:"published_quiz_id"`
	QuizID           uint            `json:"quiz_id"`
	QuizType         models.QuizType `json:"quiz_type"`
	DivisionID       uint            `json:"division_id"`
	SchoolID         uint            `json:"school_id"`
	QuestionCount    int             `json:"question_count"`
	StudentsAssigned int             `json:"students_assigned"`
	TaskID           *uint           `json:"task_id,omitempty"`
}

type TaskResponse struct {
	ID              uint              `json:"id"`
	Title           string            `json:"title"`
	TaskType        models.TaskType   `json:"task_type"`
	Status          models.TaskStatus `json:"status"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	Instructions    datatypes.JSON    `json:"instructions,omitempty"`
	SubjectID       uint              `json:"subject_id"`
	TeacherID       uint              `json:"teacher_id"`
	DivisionID      uint              `json:"division_id"`
	ClassScheduleID *uint             `json:"class_schedule_id,omitempty"`
	QuizID          *uint             `json:"quiz_id,omitempty"`
	PublishedQuizID *uint             `json:"published_quiz_id,omitempty"`
	Quiz            *QuizResponse     `json:"quiz,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type TaskListResponse struct {
	Tasks []*TaskResponse `json:"tasks"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

// ===== SERVICE INTERFACES =====

type ScheduleService interface {
	// Core operations
	Create(ctx context.Context, req *CreateScheduleRequest, creatorID string) (*ScheduleResponse, error)
	GetByID(ctx context.Context, id uint) (*ScheduleResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	// List operations
	List(ctx context.Context, filters repositories.ScheduleFilters) (*ScheduleListResponse, error)
	GetByTeacher(ctx context.Context, teacherID uint, filters repositories.ScheduleFilters) (*ScheduleListResponse, error)
	GetByDivision(ctx context.Context, divisionID uint, filters repositories.ScheduleFilters) (*ScheduleListResponse, error)

	// Current class resolution
	CurrentClassForTeacher(ctx context.Context, teacherID uint, at time.Time) (*ScheduleResponse, error)
	CurrentClassForStudent(ctx context.Context, studentUserID string, at time.Time) (*ScheduleResponse, error)

	// Topic tagging
	SetClassTopic(ctx context.Context, req *TopicTagRequest, userID string) (*TopicTagResponse, error)
	GetClassTopics(ctx context.Context, scheduleID uint) ([]*TopicTagResponse, error)
}

type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, creatorID string) (*QuestionResponse, error)
	GetByID(ctx context.Context, id uint, userID string) (*QuestionResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*QuestionResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	List(ctx context.Context, filters repositories.QuestionFilters, userID string) (*QuestionListResponse, error)
	GetByAuthor(ctx context.Context, authorID string, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	Search(ctx context.Context, query string, filters repositories.QuestionFilters, userID string) (*QuestionListResponse, error)
}

type QuizService interface {
	// Core operations
	Create(ctx context.Context, req *CreateQuizRequest, creatorID string) (*QuizResponse, error)
	GetByID(ctx context.Context, id uint) (*QuizResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuizRequest, userID string) (*QuizResponse, error)
	Delete(ctx context.Context, id uint, userID string) error
	List(ctx context.Context, filters repositories.QuizFilters, userID string) (*QuizListResponse, error)

	// Question management
	AddQuestion(ctx context.Context, quizID, questionID uint, userID string) (*AddQuestionsResult, error)
	AddQuestions(ctx context.Context, quizID uint, req *AddQuestionsRequest, userID string) (*AddQuestionsResult, error)
	GetQuizQuestions(ctx context.Context, quizID uint) ([]*QuestionResponse, error)
	GetQuizQuestionsByState(ctx context.Context, quizID uint, userID string, includeDrafts bool) (*QuizQuestionsByStateResponse, error)

	// Publication
	Publish(ctx context.Context, req *PublishQuizRequest, userID string) (*PublishResponse, error)
	GetPublishedByDivision(ctx context.Context, divisionID uint, limit, offset int) ([]*models.PublishedQuiz, int64, error)
}

type TaskService interface {
	Create(ctx context.Context, req *CreateTaskRequest, creatorID string) (*TaskResponse, error)
	GetByID(ctx context.Context, id uint) (*TaskResponse, error)
	Delete(ctx context.Context, id uint, userID string) error

	List(ctx context.Context, filters repositories.TaskFilters) (*TaskListResponse, error)
	GetByTeacher(ctx context.Context, teacherID uint, filters repositories.TaskFilters) (*TaskListResponse, error)
	GetStats(ctx context.Context, teacherID uint) (*repositories.TeacherTaskStats, error)
}

type CatalogService interface {
	// Schools and boards
	CreateSchool(ctx context.Context, req *CreateSchoolRequest) (*models.School, error)
	ListSchools(ctx context.Context, limit, offset int) ([]*models.School, int64, error)
	CreateBoard(ctx context.Context, req *CreateBoardRequest) (*models.Board, error)
	ListBoards(ctx context.Context) ([]*models.Board, error)

	// Grades, sections, subjects
	CreateGrade(ctx context.Context, req *CreateGradeRequest) (*models.Grade, error)
	ListGrades(ctx context.Context) ([]*models.Grade, error)
	CreateSection(ctx context.Context, req *CreateSectionRequest) (*models.Section, error)
	ListSections(ctx context.Context) ([]*models.Section, error)
	CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)

	// Divisions
	CreateDivision(ctx context.Context, req *CreateDivisionRequest) (*models.Division, error)
	GetDivision(ctx context.Context, id uint) (*models.Division, error)
	ListDivisions(ctx context.Context, filters repositories.DivisionFilters) ([]*models.Division, int64, error)
	AssignSubjectToDivision(ctx context.Context, req *DivisionSubjectRequest) error

	// Subject topics
	CreateSubjectTopic(ctx context.Context, req *CreateSubjectTopicRequest) (*models.SubjectTopic, error)
	ListSubjectTopics(ctx context.Context, filters repositories.TopicFilters) ([]*models.SubjectTopic, int64, error)

	// People
	RegisterTeacher(ctx context.Context, req *RegisterTeacherRequest) (*models.Teacher, error)
	RegisterStudent(ctx context.Context, req *RegisterStudentRequest) (*models.Student, error)
	AssignStudentToDivision(ctx context.Context, req *AssignStudentDivisionRequest) error
	AssignTeacherSubject(ctx context.Context, req *AssignTeacherSubjectRequest) error
}

type ExportService interface {
	// ExportQuizQuestions renders the authoring view of a quiz as an xlsx
	// workbook and returns the file bytes with a suggested filename.
	ExportQuizQuestions(ctx context.Context, quizID uint, userID string) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Schedule() ScheduleService
	Question() QuestionService
	Quiz() QuizService
	Task() TaskService
	Catalog() CatalogService
	Export() ExportService

	// Lifecycle management
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
