package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskClasswork       TaskType = "Classwork"
	TaskHomework        TaskType = "Homework"
	TaskQuiz            TaskType = "Quiz"
	TaskAssignment      TaskType = "Assignment"
	TaskReadingMaterial TaskType = "ReadingMaterial"
	TaskAICheck         TaskType = "AICheck"
	TaskSlipTest        TaskType = "SlipTest"
)

// QuizBacked reports whether tasks of this type cascade into quiz
// creation when a quiz payload is supplied.
func (t TaskType) QuizBacked() bool {
	switch t {
	case TaskQuiz, TaskAssignment, TaskSlipTest:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// TeacherTask is an assignment unit a teacher issues to a division.
// PublishedQuizID is SET NULL on snapshot deletion: the snapshot and its
// fan-out rows outlive the task.
type TeacherTask struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Title    string   `json:"title" gorm:"not null;size:300;uniqueIndex:uq_teacher_task" validate:"required,min=1,max=300"`
	TaskType TaskType `json:"task_type" gorm:"not null;size:30;uniqueIndex:uq_teacher_task" validate:"required,oneof=Classwork Homework Quiz Assignment ReadingMaterial AICheck SlipTest"`

	StartDate    time.Time      `json:"start_date" gorm:"not null" validate:"required"`
	EndDate      time.Time      `json:"end_date" gorm:"not null" validate:"required"`
	Instructions datatypes.JSON `json:"instructions" gorm:"type:jsonb"`
	Status       TaskStatus     `json:"status" gorm:"not null;size:20;default:active"`

	SubjectID       uint  `json:"subject_id" gorm:"not null;index;uniqueIndex:uq_teacher_task" validate:"required"`
	TeacherID       uint  `json:"teacher_id" gorm:"not null;index;uniqueIndex:uq_teacher_task" validate:"required"`
	DivisionID      uint  `json:"division_id" gorm:"not null;index;uniqueIndex:uq_teacher_task" validate:"required"`
	ClassScheduleID *uint `json:"class_schedule_id" gorm:"uniqueIndex:uq_teacher_task"`

	QuizID          *uint `json:"quiz_id" gorm:"index"`
	PublishedQuizID *uint `json:"published_quiz_id" gorm:"index;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Subject       Subject        `json:"-" gorm:"foreignKey:SubjectID"`
	Teacher       Teacher        `json:"-" gorm:"foreignKey:TeacherID"`
	Division      Division       `json:"-" gorm:"foreignKey:DivisionID"`
	ClassSchedule *ClassSchedule `json:"-" gorm:"foreignKey:ClassScheduleID"`
	Quiz          *Quiz          `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	PublishedQuiz *PublishedQuiz `json:"-" gorm:"foreignKey:PublishedQuizID"`
}

func (TeacherTask) TableName() string {
	return "teacher_tasks"
}
