package validator

import (
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// ScheduleCreateRequest represents the request structure for creating class schedules
type ScheduleCreateRequest struct {
	Period     int       `json:"period" validate:"required,min=1,max=12"`
	Date       time.Time `json:"date" validate:"required"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
	SubjectID  uint      `json:"subject_id" validate:"required"`
	DivisionID uint      `json:"division_id" validate:"required"`
	TeacherID  uint      `json:"teacher_id" validate:"required"`
}

// TopicTagRequest represents tagging a class schedule with a subject topic
type TopicTagRequest struct {
	ClassScheduleID uint `json:"class_schedule_id" validate:"required"`
	SubjectTopicID  uint `json:"subject_topic_id" validate:"required"`
}

// QuestionCreateRequest represents the request structure for creating questions
type QuestionCreateRequest struct {
	Title          string               `json:"title" validate:"required,question_title"`
	Body           string               `json:"body" validate:"required"`
	IsObjective    bool                 `json:"is_objective"`
	State          models.QuestionState `json:"state" validate:"omitempty,question_state"`
	ChoiceBody     datatypes.JSON       `json:"choice_body"`
	Answer         *string              `json:"answer"`
	BaselineAnswer *string              `json:"baseline_answer"`
	Topic          *string              `json:"topic" validate:"omitempty,max=255"`
	SubTopic       *string              `json:"sub_topic" validate:"omitempty,max=255"`
	SubjectID      uint                 `json:"subject_id" validate:"required"`
	DivisionID     uint                 `json:"division_id" validate:"required"`
	SchoolID       uint                 `json:"school_id" validate:"required"`
}

// QuestionUpdateRequest represents the request structure for updating questions
type QuestionUpdateRequest struct {
	Title          *string               `json:"title" validate:"omitempty,question_title"`
	Body           *string               `json:"body" validate:"omitempty,min=1"`
	IsObjective    *bool                 `json:"is_objective"`
	State          *models.QuestionState `json:"state" validate:"omitempty,question_state"`
	ChoiceBody     datatypes.JSON        `json:"choice_body"`
	Answer         *string               `json:"answer"`
	BaselineAnswer *string               `json:"baseline_answer"`
	Topic          *string               `json:"topic" validate:"omitempty,max=255"`
	SubTopic       *string               `json:"sub_topic" validate:"omitempty,max=255"`
}

// QuizCreateRequest represents the request structure for creating quizzes
type QuizCreateRequest struct {
	Title        string          `json:"title" validate:"required,quiz_title"`
	StartDate    time.Time       `json:"start_date" validate:"required"`
	Duration     int             `json:"duration" validate:"required,quiz_duration"`
	Topic        *string         `json:"topic" validate:"omitempty,max=255"`
	SubTopic     *string         `json:"sub_topic" validate:"omitempty,max=255"`
	QuizType     models.QuizType `json:"quiz_type" validate:"required,quiz_type"`
	IsPublic     bool            `json:"is_public"`
	Instructions datatypes.JSON  `json:"instructions"`
	TotalMarks   *int            `json:"total_marks" validate:"omitempty,min=0"`
	SubjectID    uint            `json:"subject_id" validate:"required"`
	DivisionID   uint            `json:"division_id" validate:"required"`
	SchoolID     uint            `json:"school_id" validate:"required"`
}

// QuizUpdateRequest represents a partial quiz update
type QuizUpdateRequest struct {
	Title        *string          `json:"title" validate:"omitempty,quiz_title"`
	StartDate    *time.Time       `json:"start_date"`
	Duration     *int             `json:"duration" validate:"omitempty,quiz_duration"`
	Topic        *string          `json:"topic" validate:"omitempty,max=255"`
	SubTopic     *string          `json:"sub_topic" validate:"omitempty,max=255"`
	QuizType     *models.QuizType `json:"quiz_type" validate:"omitempty,quiz_type"`
	IsPublic     *bool            `json:"is_public"`
	Instructions datatypes.JSON   `json:"instructions"`
	TotalMarks   *int             `json:"total_marks" validate:"omitempty,min=0"`
}

// AddQuestionsRequest represents bulk-linking questions to a quiz
type AddQuestionsRequest struct {
	QuestionIDs []uint `json:"question_ids" validate:"required,min=1,dive,required"`
}

// PublishQuizRequest represents the request structure for publishing a quiz
// to a division. TaskID of 0 means no task linkage.
type PublishQuizRequest struct {
	QuizID     uint            `json:"quiz_id" validate:"required"`
	DivisionID uint            `json:"division_id" validate:"required"`
	QuizType   models.QuizType `json:"quiz_type" validate:"required,quiz_type"`
	TaskID     uint            `json:"task_id"`
}

// TaskQuizRequest is the embedded quiz payload for quiz-backed tasks
type TaskQuizRequest struct {
	Title     string          `json:"title" validate:"required,quiz_title"`
	StartDate time.Time       `json:"start_date" validate:"required"`
	Duration  int             `json:"duration" validate:"required,quiz_duration"`
	Topic     *string         `json:"topic" validate:"omitempty,max=255"`
	SubTopic  *string         `json:"sub_topic" validate:"omitempty,max=255"`
	QuizType  models.QuizType `json:"quiz_type" validate:"omitempty,quiz_type"`
	IsPublic  bool            `json:"is_public"`
}

// TaskCreateRequest represents the request structure for creating teacher tasks
type TaskCreateRequest struct {
	Title           string          `json:"title" validate:"required,min=1,max=255"`
	TaskType        models.TaskType `json:"task_type" validate:"required,task_type"`
	StartDate       time.Time       `json:"start_date" validate:"required"`
	EndDate         time.Time       `json:"end_date" validate:"required"`
	Instructions    datatypes.JSON  `json:"instructions"`
	SubjectID       uint            `json:"subject_id" validate:"required"`
	DivisionID      uint            `json:"division_id" validate:"required"`
	SchoolID        uint            `json:"school_id" validate:"required"`
	ClassScheduleID *uint           `json:"class_schedule_id"`
	Quiz            *TaskQuizRequest `json:"quiz"`
}

// ===== CATALOG DTOs =====

type SchoolCreateRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	BoardID *uint   `json:"board_id"`
}

type BoardCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type GradeCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type SectionCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type SubjectCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type DivisionCreateRequest struct {
	GradeID      uint   `json:"grade_id" validate:"required"`
	SectionID    uint   `json:"section_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required,academic_year"`
	SchoolID     uint   `json:"school_id" validate:"required"`
}

type DivisionSubjectRequest struct {
	DivisionID uint `json:"division_id" validate:"required"`
	SubjectID  uint `json:"subject_id" validate:"required"`
	SchoolID   uint `json:"school_id" validate:"required"`
}

type SubjectTopicCreateRequest struct {
	Topic     string  `json:"topic" validate:"required,min=1,max=255"`
	SubTopic  *string `json:"sub_topic" validate:"omitempty,max=255"`
	SubjectID uint    `json:"subject_id" validate:"required"`
	BoardID   uint    `json:"board_id" validate:"required"`
	GradeID   uint    `json:"grade_id" validate:"required"`
}

// ===== PEOPLE DTOs =====

type TeacherCreateRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	SchoolID uint   `json:"school_id" validate:"required"`
}

type StudentCreateRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	SchoolID uint   `json:"school_id" validate:"required"`
}

type AssignStudentDivisionRequest struct {
	StudentID  uint `json:"student_id" validate:"required"`
	DivisionID uint `json:"division_id" validate:"required"`
}

type AssignTeacherSubjectRequest struct {
	TeacherID  uint `json:"teacher_id" validate:"required"`
	DivisionID uint `json:"division_id" validate:"required"`
	SubjectID  uint `json:"subject_id" validate:"required"`
}
