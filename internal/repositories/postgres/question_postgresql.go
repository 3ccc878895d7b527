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

type QuestionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

// ===== BASIC CRUD OPERATIONS =====

// Create creates a new question and invalidates cache
func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, q.cacheManager.Question, fmt.Sprintf("author:%s:*", question.UserID))
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Question, "list:*")

	return nil
}

// GetByID retrieves a question by ID with caching
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := q.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var question models.Question

	err := q.cacheManager.Question.CacheOrExecute(ctx, cacheKey, &question, cache.QuestionCacheConfig.TTL, func() (interface{}, error) {
		var dbQuestion models.Question
		if err := db.WithContext(ctx).First(&dbQuestion, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("question %d: %w", id, gorm.ErrRecordNotFound)
			}
			return nil, fmt.Errorf("failed to get question: %w", err)
		}
		return &dbQuestion, nil
	})

	if err != nil {
		return nil, err
	}

	return &question, nil
}

// Update updates a question
func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	cache.InvalidateQuestionCache(ctx, q.cacheManager, question.ID, question.UserID)

	return nil
}

// Delete soft deletes a question
func (q *QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)

	var question models.Question
	if err := db.WithContext(ctx).Select("id, user_id").First(&question, id).Error; err != nil {
		return fmt.Errorf("failed to get question before delete: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.Question{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	cache.InvalidateQuestionCache(ctx, q.cacheManager, id, question.UserID)

	return nil
}

// ===== BULK OPERATIONS =====

func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error) {
	if len(ids) == 0 {
		return []*models.Question{}, nil
	}

	db := q.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by IDs: %w", err)
	}
	return questions, nil
}

// ===== QUERY OPERATIONS =====

func (q *QuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	db := q.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Question{})
	query = q.helpers.ApplyQuestionFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var questions []*models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	return questions, total, nil
}

func (q *QuestionPostgreSQL) GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters.AuthorID = &authorID
	return q.List(ctx, tx, filters)
}

func (q *QuestionPostgreSQL) Search(ctx context.Context, tx *gorm.DB, searchQuery string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	db := q.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Question{}).
		Where("title ILIKE ? OR body ILIKE ?", "%"+searchQuery+"%", "%"+searchQuery+"%")
	query = q.helpers.ApplyQuestionFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var questions []*models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search questions: %w", err)
	}

	return questions, total, nil
}

// ===== VALIDATION AND CHECKS =====

// ExistsByTitle checks the author-scoped uniqueness constraint before
// insert so the caller can return a friendly error.
func (q *QuestionPostgreSQL) ExistsByTitle(ctx context.Context, tx *gorm.DB, title, authorID string, subjectID, divisionID, schoolID uint, excludeID *uint) (bool, error) {
	db := q.getDB(tx)

	query := db.WithContext(ctx).
		Model(&models.Question{}).
		Where("title = ? AND user_id = ? AND subject_id = ? AND division_id = ? AND school_id = ?",
			title, authorID, subjectID, divisionID, schoolID)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check question title: %w", err)
	}
	return count > 0, nil
}

func (q *QuestionPostgreSQL) IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error) {
	db := q.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check question ownership: %w", err)
	}
	return count > 0, nil
}
