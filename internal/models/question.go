package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionState string

const (
	QuestionActive QuestionState = "active"
	QuestionDraft  QuestionState = "draft"
	QuestionEdited QuestionState = "edited"
)

// Question is authored content scoped to one subject/division/school.
// State is set freely by the author; only active questions are eligible
// for publication and for the student-facing quiz read.
type Question struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null;size:300;uniqueIndex:uq_question" validate:"required,min=1,max=300"`
	Body        string        `json:"body" gorm:"type:text;not null" validate:"required"`
	IsObjective bool          `json:"is_objective" gorm:"not null;default:false"`
	State       QuestionState `json:"state" gorm:"not null;default:draft;index" validate:"omitempty,oneof=active draft edited"`

	// Choices stored as JSONB; nil for subjective questions
	ChoiceBody datatypes.JSON `json:"choice_body" gorm:"type:jsonb"`
	Answer     *string        `json:"answer" gorm:"type:text"`

	// BaselineAnswer is the grading reference, hidden from student reads.
	BaselineAnswer *string `json:"baseline_answer,omitempty" gorm:"type:text"`

	Topic    *string `json:"topic" gorm:"size:200"`
	SubTopic *string `json:"sub_topic" gorm:"size:200"`

	UserID     string `json:"user_id" gorm:"not null;size:255;uniqueIndex:uq_question"`
	SubjectID  uint   `json:"subject_id" gorm:"not null;index;uniqueIndex:uq_question" validate:"required"`
	DivisionID uint   `json:"division_id" gorm:"not null;index;uniqueIndex:uq_question" validate:"required"`
	SchoolID   uint   `json:"school_id" gorm:"not null;index;uniqueIndex:uq_question" validate:"required"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author   User     `json:"-" gorm:"foreignKey:UserID"`
	Subject  Subject  `json:"-" gorm:"foreignKey:SubjectID"`
	Division Division `json:"-" gorm:"foreignKey:DivisionID"`
	School   School   `json:"-" gorm:"foreignKey:SchoolID"`

	// Computed field, filled by quiz reads from the link row
	QuestionNumber int `json:"question_number,omitempty" gorm:"-"`
}

// QuizQuestion links a question into a quiz with its position. Numbers
// are assigned sequentially above the quiz's current max.
type QuizQuestion struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	QuizID         uint   `json:"quiz_id" gorm:"not null;index;uniqueIndex:uq_quiz_question"`
	QuestionID     uint   `json:"question_id" gorm:"not null;index;uniqueIndex:uq_quiz_question"`
	QuestionNumber int    `json:"question_number" gorm:"not null"`
	AddedBy        string `json:"added_by" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Quiz     Quiz     `json:"-" gorm:"foreignKey:QuizID"`
	Question Question `json:"question" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
