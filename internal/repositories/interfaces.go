package repositories

import (
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ScheduleFilters struct {
	TeacherID  *uint      `json:"teacher_id"`
	DivisionID *uint      `json:"division_id"`
	SubjectID  *uint      `json:"subject_id"`
	Date       *time.Time `json:"date"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	SortBy     string     `json:"sort_by"`    // "date", "start_time", "period"
	SortOrder  string     `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	State      *models.QuestionState `json:"state"`
	AuthorID   *string               `json:"author_id"`
	SubjectID  *uint                 `json:"subject_id"`
	DivisionID *uint                 `json:"division_id"`
	SchoolID   *uint                 `json:"school_id"`
	Topic      *string               `json:"topic"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
	SortBy     string                `json:"sort_by"`
	SortOrder  string                `json:"sort_order"`
}

type QuizFilters struct {
	QuizType   *models.QuizType `json:"quiz_type"`
	AuthorID   *string          `json:"author_id"`
	SubjectID  *uint            `json:"subject_id"`
	DivisionID *uint            `json:"division_id"`
	SchoolID   *uint            `json:"school_id"`
	IsPublic   *bool            `json:"is_public"`
	DateFrom   *time.Time       `json:"date_from"`
	DateTo     *time.Time       `json:"date_to"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	SortBy     string           `json:"sort_by"`
	SortOrder  string           `json:"sort_order"`
}

type TaskFilters struct {
	TaskType   *models.TaskType   `json:"task_type"`
	Status     *models.TaskStatus `json:"status"`
	TeacherID  *uint              `json:"teacher_id"`
	DivisionID *uint              `json:"division_id"`
	SubjectID  *uint              `json:"subject_id"`
	DateFrom   *time.Time         `json:"date_from"`
	DateTo     *time.Time         `json:"date_to"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
	SortBy     string             `json:"sort_by"`
	SortOrder  string             `json:"sort_order"`
}

type DivisionFilters struct {
	SchoolID     *uint   `json:"school_id"`
	GradeID      *uint   `json:"grade_id"`
	AcademicYear *string `json:"academic_year"`
	Limit        int     `json:"limit"`
	Offset       int     `json:"offset"`
}

type TopicFilters struct {
	SubjectID *uint `json:"subject_id"`
	BoardID   *uint `json:"board_id"`
	GradeID   *uint `json:"grade_id"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// QuestionBuckets is the authoring view of a quiz's linked questions
// grouped by lifecycle state, each bucket ordered by question number.
type QuestionBuckets struct {
	Active []*models.Question `json:"active"`
	Draft  []*models.Question `json:"draft"`
	Edited []*models.Question `json:"edited"`
}

func (b *QuestionBuckets) Total() int {
	return len(b.Active) + len(b.Draft) + len(b.Edited)
}

// ===== STATISTICS STRUCTS =====

type DivisionStats struct {
	StudentCount  int `json:"student_count"`
	SubjectCount  int `json:"subject_count"`
	ScheduleCount int `json:"schedule_count"`
}

type TeacherTaskStats struct {
	TotalTasks     int                     `json:"total_tasks"`
	TasksByType    map[models.TaskType]int `json:"tasks_by_type"`
	ActiveTasks    int                     `json:"active_tasks"`
	CompletedTasks int                     `json:"completed_tasks"`
}

type PublishStats struct {
	PublishedCount int `json:"published_count"`
	ResponseCount  int `json:"response_count"`
	SubmittedCount int `json:"submitted_count"`
}
