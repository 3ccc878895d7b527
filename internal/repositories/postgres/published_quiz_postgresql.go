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

type PublishedQuizPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewPublishedQuizPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.PublishedQuizRepository {
	return &PublishedQuizPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *PublishedQuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *PublishedQuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(published).Error; err != nil {
		return fmt.Errorf("failed to create published quiz: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, p.cacheManager.Quiz, fmt.Sprintf("published:division:%d*", published.DivisionID))

	return nil
}

func (p *PublishedQuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PublishedQuiz, error) {
	db := p.getDB(tx)
	var published models.PublishedQuiz
	if err := db.WithContext(ctx).First(&published, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("published quiz %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get published quiz: %w", err)
	}
	return &published, nil
}

func (p *PublishedQuizPostgreSQL) GetByDivision(ctx context.Context, tx *gorm.DB, divisionID uint, limit, offset int) ([]*models.PublishedQuiz, int64, error) {
	db := p.getDB(tx)

	query := db.WithContext(ctx).
		Model(&models.PublishedQuiz{}).
		Where("division_id = ?", divisionID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count published quizzes: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var published []*models.PublishedQuiz
	if err := query.Order("created_at DESC").Find(&published).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list published quizzes: %w", err)
	}

	return published, total, nil
}

// Exists checks the (quiz, division, school, quiz_type) slot. The unique
// index stays authoritative; this only buys a friendlier error.
func (p *PublishedQuizPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, quizID, divisionID, schoolID uint, quizType models.QuizType) (bool, error) {
	db := p.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.PublishedQuiz{}).
		Where("quiz_id = ? AND division_id = ? AND school_id = ? AND quiz_type = ?",
			quizID, divisionID, schoolID, quizType).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check published quiz existence: %w", err)
	}
	return count > 0, nil
}

// CreateResponses bulk-inserts the fan-out rows. One statement: partial
// failure rolls back the whole batch with the surrounding transaction.
func (p *PublishedQuizPostgreSQL) CreateResponses(ctx context.Context, tx *gorm.DB, responses []*models.StudentQuizResponseRel) error {
	if len(responses) == 0 {
		return nil
	}

	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(&responses).Error; err != nil {
		return fmt.Errorf("failed to create student quiz responses: %w", err)
	}

	return nil
}

func (p *PublishedQuizPostgreSQL) GetResponsesByPublishedQuiz(ctx context.Context, tx *gorm.DB, publishedQuizID uint) ([]*models.StudentQuizResponseRel, error) {
	db := p.getDB(tx)
	var responses []*models.StudentQuizResponseRel
	err := db.WithContext(ctx).
		Where("quiz_rel_id = ?", publishedQuizID).
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get student quiz responses: %w", err)
	}
	return responses, nil
}

func (p *PublishedQuizPostgreSQL) GetPublishStats(ctx context.Context, tx *gorm.DB, divisionID uint) (*repositories.PublishStats, error) {
	db := p.getDB(tx)
	stats := &repositories.PublishStats{}

	err := db.WithContext(ctx).
		Raw(`SELECT
			(SELECT COUNT(*) FROM published_quizzes WHERE division_id = ?) AS published_count,
			(SELECT COUNT(*) FROM student_quiz_response_rel r
				JOIN published_quizzes pq ON pq.id = r.quiz_rel_id
				WHERE pq.division_id = ?) AS response_count,
			(SELECT COUNT(*) FROM student_quiz_response_rel r
				JOIN published_quizzes pq ON pq.id = r.quiz_rel_id
				WHERE pq.division_id = ? AND r.is_submitted) AS submitted_count`,
			divisionID, divisionID, divisionID).
		Row().Scan(&stats.PublishedCount, &stats.ResponseCount, &stats.SubmittedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get publish stats: %w", err)
	}

	return stats, nil
}
