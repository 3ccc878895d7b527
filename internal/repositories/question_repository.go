package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository interface for question bank operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Bulk operations
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters QuestionFilters) ([]*models.Question, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters QuestionFilters) ([]*models.Question, int64, error)

	// Validation and checks
	ExistsByTitle(ctx context.Context, tx *gorm.DB, title, authorID string, subjectID, divisionID, schoolID uint, excludeID *uint) (bool, error)
	IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error)
}

// QuizRepository interface for quiz templates and question links
type QuizRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) // Preloads subject, division, school
	Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters QuizFilters) ([]*models.Quiz, int64, error)
	GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters QuizFilters) ([]*models.Quiz, int64, error)

	// Question link operations
	AddQuestionLink(ctx context.Context, tx *gorm.DB, link *models.QuizQuestion) error
	AddQuestionLinks(ctx context.Context, tx *gorm.DB, links []*models.QuizQuestion) error
	GetLinkedQuestionIDs(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error)
	MaxQuestionNumber(ctx context.Context, tx *gorm.DB, quizID uint) (int, error)

	// GetActiveQuestions returns active-state questions joined through the
	// link table, ordered by question number. Links whose question row is
	// gone are skipped.
	GetActiveQuestions(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.Question, error)

	// GetQuestionsByState groups every linked question into lifecycle
	// buckets, each ordered by question number.
	GetQuestionsByState(ctx context.Context, tx *gorm.DB, quizID uint) (*QuestionBuckets, error)

	// Permission checks
	IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error)
}

// PublishedQuizRepository interface for snapshots and response fan-out
type PublishedQuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PublishedQuiz, error)
	GetByDivision(ctx context.Context, tx *gorm.DB, divisionID uint, limit, offset int) ([]*models.PublishedQuiz, int64, error)

	// Exists reports whether a snapshot already holds the unique
	// (quiz, division, school, quiz_type) slot.
	Exists(ctx context.Context, tx *gorm.DB, quizID, divisionID, schoolID uint, quizType models.QuizType) (bool, error)

	// Response fan-out
	CreateResponses(ctx context.Context, tx *gorm.DB, responses []*models.StudentQuizResponseRel) error
	GetResponsesByPublishedQuiz(ctx context.Context, tx *gorm.DB, publishedQuizID uint) ([]*models.StudentQuizResponseRel, error)
	GetPublishStats(ctx context.Context, tx *gorm.DB, divisionID uint) (*PublishStats, error)
}

// TaskRepository interface for teacher task operations
type TaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error)
	Update(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters TaskFilters) ([]*models.TeacherTask, int64, error)
	GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters TaskFilters) ([]*models.TeacherTask, int64, error)

	ExistsDuplicate(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) (bool, error)
	SetPublishedQuiz(ctx context.Context, tx *gorm.DB, taskID, publishedQuizID uint) error
	GetTaskStats(ctx context.Context, tx *gorm.DB, teacherID uint) (*TeacherTaskStats, error)
}
