package events

import (
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

const eventSource = "school-admin-service"

// Event types published to the broker
const (
	EventQuizPublished = "quiz.published"
	EventTaskCreated   = "task.created"
)

// Event is the envelope for every message published to the broker
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// QuizPublishedEvent is emitted after a quiz publication commits
type QuizPublishedEvent struct {
	PublishedQuizID uint            `json:"published_quiz_id"`
	QuizID          uint            `json:"quiz_id"`
	QuizType        models.QuizType `json:"quiz_type"`
	DivisionID      uint            `json:"division_id"`
	SchoolID        uint            `json:"school_id"`
	StudentCount    int             `json:"student_count"`
	PublishedBy     string          `json:"published_by"`
	StartTime       time.Time       `json:"start_time"`
	Duration        int             `json:"duration"`
}

// TaskCreatedEvent is emitted after a teacher task commits
type TaskCreatedEvent struct {
	TaskID     uint            `json:"task_id"`
	TaskType   models.TaskType `json:"task_type"`
	Title      string          `json:"title"`
	TeacherID  uint            `json:"teacher_id"`
	SubjectID  uint            `json:"subject_id"`
	DivisionID uint            `json:"division_id"`
	QuizID     *uint           `json:"quiz_id,omitempty"`
	CreatedBy  string          `json:"created_by"`
}
