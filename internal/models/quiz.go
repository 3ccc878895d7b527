package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizType string

const (
	QuizTypeQuiz       QuizType = "Quiz"
	QuizTypeAssignment QuizType = "Assignment"
	QuizTypeSlipTest   QuizType = "SlipTest"
)

// Quiz is an authored template. Publication snapshots it per division;
// the template itself stays mutable by its owner.
type Quiz struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:300;index" validate:"required,min=1,max=300"`
	StartDate time.Time `json:"start_date" gorm:"not null" validate:"required"`
	Duration  int       `json:"duration" gorm:"not null" validate:"required,min=1,max=600"` // minutes

	Topic    *string `json:"topic" gorm:"size:200"`
	SubTopic *string `json:"sub_topic" gorm:"size:200"`

	QuizType     QuizType       `json:"quiz_type" gorm:"not null;size:30;default:Quiz" validate:"omitempty,oneof=Quiz Assignment SlipTest"`
	IsPublic     bool           `json:"is_public" gorm:"not null;default:false"`
	Instructions datatypes.JSON `json:"instructions" gorm:"type:jsonb"`
	TotalMarks   *int           `json:"total_marks"`

	UserID     string `json:"user_id" gorm:"not null;index;size:255"`
	SubjectID  uint   `json:"subject_id" gorm:"not null;index" validate:"required"`
	DivisionID uint   `json:"division_id" gorm:"not null;index" validate:"required"`
	SchoolID   uint   `json:"school_id" gorm:"not null;index" validate:"required"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author   User     `json:"-" gorm:"foreignKey:UserID"`
	Subject  Subject  `json:"-" gorm:"foreignKey:SubjectID"`
	Division Division `json:"-" gorm:"foreignKey:DivisionID"`
	School   School   `json:"-" gorm:"foreignKey:SchoolID"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// DueDate is derived, never stored.
func (q *Quiz) DueDate() time.Time {
	return q.StartDate.Add(time.Duration(q.Duration) * time.Minute)
}

type PublishedQuizStatus string

const (
	PublishedStatusPublished PublishedQuizStatus = "published"
)

// PublishedQuiz is the immutable per-division snapshot of a quiz's active
// questions. One exists per (quiz, division, school, quiz_type); the only
// mutation after creation is the task linkage on the task side.
type PublishedQuiz struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	UserID     string              `json:"user_id" gorm:"not null;index;size:255"`
	QuizDetail datatypes.JSON      `json:"quiz_detail" gorm:"type:jsonb;not null"`
	QuizType   QuizType            `json:"quiz_type" gorm:"not null;size:30;uniqueIndex:uq_published_quiz"`
	StartTime  time.Time           `json:"start_time" gorm:"not null"`
	Duration   int                 `json:"duration" gorm:"not null"`
	Status     PublishedQuizStatus `json:"status" gorm:"not null;size:20;default:published"`

	QuizID     uint `json:"quiz_id" gorm:"not null;index;uniqueIndex:uq_published_quiz"`
	DivisionID uint `json:"division_id" gorm:"not null;index;uniqueIndex:uq_published_quiz"`
	SchoolID   uint `json:"school_id" gorm:"not null;index;uniqueIndex:uq_published_quiz"`

	CreatedAt time.Time `json:"created_at"`

	Quiz     Quiz     `json:"-" gorm:"foreignKey:QuizID"`
	Division Division `json:"-" gorm:"foreignKey:DivisionID"`
}

type ResponseStatus string

const (
	ResponseActive ResponseStatus = "active"
)

// StudentQuizResponseRel is the per-student placeholder created at publish
// time. The submission flow fills Response and the submitted fields later.
type StudentQuizResponseRel struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	QuizDetail datatypes.JSON `json:"quiz_detail" gorm:"type:jsonb;not null"`
	Response   datatypes.JSON `json:"response" gorm:"type:jsonb"`
	Status     ResponseStatus `json:"status" gorm:"not null;size:20;default:active"`

	IsSubmitted bool       `json:"is_submitted" gorm:"not null;default:false"`
	SubmittedAt *time.Time `json:"submitted_at"`

	StudentID uint `json:"student_id" gorm:"not null;index;uniqueIndex:uq_student_quiz_response"`
	QuizRelID uint `json:"quiz_rel_id" gorm:"not null;index;uniqueIndex:uq_student_quiz_response"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student       Student       `json:"-" gorm:"foreignKey:StudentID"`
	PublishedQuiz PublishedQuiz `json:"-" gorm:"foreignKey:QuizRelID"`
}

// ===== SNAPSHOT SCHEMA =====

// PublishedQuestion is one entry inside QuizDetail, renumbered from 1.
// BaselineAnswer is carried here even though student-facing question
// reads hide it.
type PublishedQuestion struct {
	QuestionNumber int             `json:"question_number"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	IsObjective    bool            `json:"is_objective"`
	ChoiceBody     json.RawMessage `json:"choice_body,omitempty"`
	Answer         *string         `json:"answer,omitempty"`
	BaselineAnswer *string         `json:"baseline_answer,omitempty"`
	Topic          *string         `json:"topic,omitempty"`
	SubTopic       *string         `json:"sub_topic,omitempty"`
}

// QuizDetail is the denormalized payload stored on PublishedQuiz and
// copied onto every fan-out row.
type QuizDetail struct {
	QuizID       uint                `json:"quiz_id"`
	Title        string              `json:"title"`
	Duration     int                 `json:"duration"`
	Topic        *string             `json:"topic,omitempty"`
	SubTopic     *string             `json:"sub_topic,omitempty"`
	SchoolName   string              `json:"school_name"`
	DivisionName string              `json:"division_name"`
	SubjectName  string              `json:"subject_name"`
	TotalMarks   *int                `json:"total_marks,omitempty"`
	Questions    []PublishedQuestion `json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (PublishedQuiz) TableName() string {
	return "published_quizzes"
}

func (StudentQuizResponseRel) TableName() string {
	return "student_quiz_response_rel"
}
