package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/cache"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

type QuizPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewQuizPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

// ===== BASIC CRUD OPERATIONS =====

func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, q.cacheManager.Quiz, fmt.Sprintf("owner:%s:*", quiz.UserID))
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Quiz, "list:*")

	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	db := q.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var quiz models.Quiz

	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cacheKey, &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuiz models.Quiz
		if err := db.WithContext(ctx).First(&dbQuiz, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("quiz %d: %w", id, gorm.ErrRecordNotFound)
			}
			return nil, fmt.Errorf("failed to get quiz: %w", err)
		}
		return &dbQuiz, nil
	})

	if err != nil {
		return nil, err
	}

	return &quiz, nil
}

// GetByIDWithDetails retrieves a quiz with the entities publish joins
// for display names.
func (q *QuizPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	db := q.getDB(tx)
	var quiz models.Quiz
	if err := db.WithContext(ctx).
		Preload("Subject").
		Preload("School").
		Preload("Division.Grade").
		Preload("Division.Section").
		First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get quiz with details: %w", err)
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Save(quiz).Error; err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}

	cache.InvalidateQuizCache(ctx, q.cacheManager, quiz.ID, quiz.UserID)

	return nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)

	var quiz models.Quiz
	if err := db.WithContext(ctx).Select("id, user_id").First(&quiz, id).Error; err != nil {
		return fmt.Errorf("failed to get quiz before delete: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.Quiz{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	cache.InvalidateQuizCache(ctx, q.cacheManager, id, quiz.UserID)

	return nil
}

// ===== QUERY OPERATIONS =====

func (q *QuizPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	db := q.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Quiz{})
	query = q.helpers.ApplyQuizFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var quizzes []*models.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	return quizzes, total, nil
}

func (q *QuizPostgreSQL) GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	filters.AuthorID = &authorID
	return q.List(ctx, tx, filters)
}

// ===== QUESTION LINK OPERATIONS =====

func (q *QuizPostgreSQL) AddQuestionLink(ctx context.Context, tx *gorm.DB, link *models.QuizQuestion) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(link).Error; err != nil {
		return fmt.Errorf("failed to link question to quiz: %w", err)
	}

	cache.SafeDelete(ctx, q.cacheManager.Quiz,
		fmt.Sprintf("questions:%d", link.QuizID),
		fmt.Sprintf("questions:%d:states", link.QuizID))

	return nil
}

func (q *QuizPostgreSQL) AddQuestionLinks(ctx context.Context, tx *gorm.DB, links []*models.QuizQuestion) error {
	if len(links) == 0 {
		return nil
	}

	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link questions to quiz: %w", err)
	}

	cache.SafeDelete(ctx, q.cacheManager.Quiz,
		fmt.Sprintf("questions:%d", links[0].QuizID),
		fmt.Sprintf("questions:%d:states", links[0].QuizID))

	return nil
}

func (q *QuizPostgreSQL) GetLinkedQuestionIDs(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error) {
	db := q.getDB(tx)
	var ids []uint
	err := db.WithContext(ctx).
		Model(&models.QuizQuestion{}).
		Where("quiz_id = ?", quizID).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get linked question IDs: %w", err)
	}
	return ids, nil
}

// MaxQuestionNumber returns the highest assigned number, zero for an
// empty quiz.
func (q *QuizPostgreSQL) MaxQuestionNumber(ctx context.Context, tx *gorm.DB, quizID uint) (int, error) {
	db := q.getDB(tx)
	var max int
	err := db.WithContext(ctx).
		Model(&models.QuizQuestion{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(MAX(question_number), 0)").
		Row().Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max question number: %w", err)
	}
	return max, nil
}

// GetActiveQuestions returns the student-facing read: active questions
// only, ordered by link number. A link whose question row is missing is
// skipped rather than erroring.
func (q *QuizPostgreSQL) GetActiveQuestions(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.Question, error) {
	links, err := q.getLinksWithQuestions(ctx, tx, quizID)
	if err != nil {
		return nil, err
	}

	var questions []*models.Question
	for _, link := range links {
		if link.Question.ID == 0 {
			continue
		}
		if link.Question.State != models.QuestionActive {
			continue
		}
		question := link.Question
		question.QuestionNumber = link.QuestionNumber
		questions = append(questions, &question)
	}

	return questions, nil
}

// GetQuestionsByState groups all linked questions into lifecycle buckets,
// each ordered by question number.
func (q *QuizPostgreSQL) GetQuestionsByState(ctx context.Context, tx *gorm.DB, quizID uint) (*repositories.QuestionBuckets, error) {
	links, err := q.getLinksWithQuestions(ctx, tx, quizID)
	if err != nil {
		return nil, err
	}

	buckets := &repositories.QuestionBuckets{}
	for _, link := range links {
		if link.Question.ID == 0 {
			continue
		}
		question := link.Question
		question.QuestionNumber = link.QuestionNumber

		switch question.State {
		case models.QuestionActive:
			buckets.Active = append(buckets.Active, &question)
		case models.QuestionDraft:
			buckets.Draft = append(buckets.Draft, &question)
		case models.QuestionEdited:
			buckets.Edited = append(buckets.Edited, &question)
		}
	}

	return buckets, nil
}

func (q *QuizPostgreSQL) getLinksWithQuestions(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizQuestion, error) {
	db := q.getDB(tx)
	var links []models.QuizQuestion
	err := db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("question_number ASC").
		Preload("Question").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz question links: %w", err)
	}
	return links, nil
}

// ===== PERMISSION CHECKS =====

func (q *QuizPostgreSQL) IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error) {
	db := q.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check quiz ownership: %w", err)
	}
	return count > 0, nil
}
