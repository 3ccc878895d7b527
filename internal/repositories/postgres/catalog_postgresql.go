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

type CatalogPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCatalogPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CatalogRepository {
	return &CatalogPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *CatalogPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, gorm.ErrRecordNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

// ===== SCHOOLS =====

func (c *CatalogPostgreSQL) CreateSchool(ctx context.Context, tx *gorm.DB, school *models.School) error {
	if err := c.getDB(tx).WithContext(ctx).Create(school).Error; err != nil {
		return fmt.Errorf("failed to create school: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "schools:*")
	return nil
}

func (c *CatalogPostgreSQL) GetSchool(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error) {
	var school models.School
	cacheKey := fmt.Sprintf("schools:id:%d", id)
	err := c.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &school, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var row models.School
		if err := c.getDB(tx).WithContext(ctx).First(&row, id).Error; err != nil {
			return nil, notFoundOr(err, "school", id)
		}
		return &row, nil
	})
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (c *CatalogPostgreSQL) ListSchools(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.School, int64, error) {
	db := c.getDB(tx)
	query := db.WithContext(ctx).Model(&models.School{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count schools: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var schools []*models.School
	if err := query.Order("name ASC").Find(&schools).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, total, nil
}

// ===== BOARDS, GRADES, SECTIONS =====

func (c *CatalogPostgreSQL) CreateBoard(ctx context.Context, tx *gorm.DB, board *models.Board) error {
	if err := c.getDB(tx).WithContext(ctx).Create(board).Error; err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "boards:*")
	return nil
}

func (c *CatalogPostgreSQL) GetBoard(ctx context.Context, tx *gorm.DB, id uint) (*models.Board, error) {
	var board models.Board
	if err := c.getDB(tx).WithContext(ctx).First(&board, id).Error; err != nil {
		return nil, notFoundOr(err, "board", id)
	}
	return &board, nil
}

func (c *CatalogPostgreSQL) ListBoards(ctx context.Context, tx *gorm.DB) ([]*models.Board, error) {
	var boards []*models.Board
	if err := c.getDB(tx).WithContext(ctx).Order("name ASC").Find(&boards).Error; err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

func (c *CatalogPostgreSQL) CreateGrade(ctx context.Context, tx *gorm.DB, grade *models.Grade) error {
	if err := c.getDB(tx).WithContext(ctx).Create(grade).Error; err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "grades:*")
	return nil
}

func (c *CatalogPostgreSQL) GetGrade(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error) {
	var grade models.Grade
	if err := c.getDB(tx).WithContext(ctx).First(&grade, id).Error; err != nil {
		return nil, notFoundOr(err, "grade", id)
	}
	return &grade, nil
}

func (c *CatalogPostgreSQL) ListGrades(ctx context.Context, tx *gorm.DB) ([]*models.Grade, error) {
	var grades []*models.Grade
	if err := c.getDB(tx).WithContext(ctx).Order("id ASC").Find(&grades).Error; err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func (c *CatalogPostgreSQL) CreateSection(ctx context.Context, tx *gorm.DB, section *models.Section) error {
	if err := c.getDB(tx).WithContext(ctx).Create(section).Error; err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "sections:*")
	return nil
}

func (c *CatalogPostgreSQL) GetSection(ctx context.Context, tx *gorm.DB, id uint) (*models.Section, error) {
	var section models.Section
	if err := c.getDB(tx).WithContext(ctx).First(&section, id).Error; err != nil {
		return nil, notFoundOr(err, "section", id)
	}
	return &section, nil
}

func (c *CatalogPostgreSQL) ListSections(ctx context.Context, tx *gorm.DB) ([]*models.Section, error) {
	var sections []*models.Section
	if err := c.getDB(tx).WithContext(ctx).Order("name ASC").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

// ===== SUBJECTS =====

func (c *CatalogPostgreSQL) CreateSubject(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	if err := c.getDB(tx).WithContext(ctx).Create(subject).Error; err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "subjects:*")
	return nil
}

func (c *CatalogPostgreSQL) GetSubject(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	var subject models.Subject
	cacheKey := fmt.Sprintf("subjects:id:%d", id)
	err := c.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &subject, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var row models.Subject
		if err := c.getDB(tx).WithContext(ctx).First(&row, id).Error; err != nil {
			return nil, notFoundOr(err, "subject", id)
		}
		return &row, nil
	})
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *CatalogPostgreSQL) ListSubjects(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := c.getDB(tx).WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// ===== DIVISIONS =====

func (c *CatalogPostgreSQL) CreateDivision(ctx context.Context, tx *gorm.DB, division *models.Division) error {
	if err := c.getDB(tx).WithContext(ctx).Create(division).Error; err != nil {
		return fmt.Errorf("failed to create division: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "divisions:*")
	return nil
}

func (c *CatalogPostgreSQL) GetDivision(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
	var division models.Division
	if err := c.getDB(tx).WithContext(ctx).First(&division, id).Error; err != nil {
		return nil, notFoundOr(err, "division", id)
	}
	return &division, nil
}

// GetDivisionWithDetails resolves grade, section and school in one read,
// the shape publish needs for display names.
func (c *CatalogPostgreSQL) GetDivisionWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
	var division models.Division
	err := c.getDB(tx).WithContext(ctx).
		Preload("Grade").
		Preload("Section").
		Preload("School").
		First(&division, id).Error
	if err != nil {
		return nil, notFoundOr(err, "division", id)
	}
	division.DisplayName = division.Name()
	return &division, nil
}

func (c *CatalogPostgreSQL) ListDivisions(ctx context.Context, tx *gorm.DB, filters repositories.DivisionFilters) ([]*models.Division, int64, error) {
	db := c.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Division{})

	if filters.SchoolID != nil {
		query = query.Where("school_id = ?", *filters.SchoolID)
	}
	if filters.GradeID != nil {
		query = query.Where("grade_id = ?", *filters.GradeID)
	}
	if filters.AcademicYear != nil {
		query = query.Where("academic_year = ?", *filters.AcademicYear)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count divisions: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var divisions []*models.Division
	if err := query.Preload("Grade").Preload("Section").Find(&divisions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list divisions: %w", err)
	}

	for _, d := range divisions {
		d.DisplayName = d.Name()
	}

	return divisions, total, nil
}

func (c *CatalogPostgreSQL) GetDivisionStats(ctx context.Context, tx *gorm.DB, divisionID uint) (*repositories.DivisionStats, error) {
	db := c.getDB(tx)
	stats := &repositories.DivisionStats{}

	err := db.WithContext(ctx).
		Raw(`SELECT
			(SELECT COUNT(*) FROM student_divisions WHERE division_id = ? AND is_current) AS student_count,
			(SELECT COUNT(*) FROM division_subjects WHERE division_id = ?) AS subject_count,
			(SELECT COUNT(*) FROM class_schedules WHERE division_id = ? AND deleted_at IS NULL) AS schedule_count`,
			divisionID, divisionID, divisionID).
		Row().Scan(&stats.StudentCount, &stats.SubjectCount, &stats.ScheduleCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get division stats: %w", err)
	}

	return stats, nil
}

// ===== DIVISION-SUBJECT ASSIGNMENTS =====

func (c *CatalogPostgreSQL) AssignSubjectToDivision(ctx context.Context, tx *gorm.DB, rel *models.DivisionSubject) error {
	if err := c.getDB(tx).WithContext(ctx).Create(rel).Error; err != nil {
		return fmt.Errorf("failed to assign subject to division: %w", err)
	}
	cache.SafeDelete(ctx, c.cacheManager.Exists, fmt.Sprintf("division_subject:%d:%d", rel.DivisionID, rel.SubjectID))
	return nil
}

func (c *CatalogPostgreSQL) SubjectAssignedToDivision(ctx context.Context, tx *gorm.DB, divisionID, subjectID uint) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.DivisionSubject{}).
		Where("division_id = ? AND subject_id = ?", divisionID, subjectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check division subject assignment: %w", err)
	}
	return count > 0, nil
}

// ===== SUBJECT TOPICS =====

func (c *CatalogPostgreSQL) CreateSubjectTopic(ctx context.Context, tx *gorm.DB, topic *models.SubjectTopic) error {
	if err := c.getDB(tx).WithContext(ctx).Create(topic).Error; err != nil {
		return fmt.Errorf("failed to create subject topic: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "topics:*")
	return nil
}

func (c *CatalogPostgreSQL) GetSubjectTopic(ctx context.Context, tx *gorm.DB, id uint) (*models.SubjectTopic, error) {
	var topic models.SubjectTopic
	if err := c.getDB(tx).WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, notFoundOr(err, "subject topic", id)
	}
	return &topic, nil
}

func (c *CatalogPostgreSQL) ListSubjectTopics(ctx context.Context, tx *gorm.DB, filters repositories.TopicFilters) ([]*models.SubjectTopic, int64, error) {
	db := c.getDB(tx)
	query := db.WithContext(ctx).Model(&models.SubjectTopic{})

	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.BoardID != nil {
		query = query.Where("board_id = ?", *filters.BoardID)
	}
	if filters.GradeID != nil {
		query = query.Where("grade_id = ?", *filters.GradeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subject topics: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var topics []*models.SubjectTopic
	if err := query.Order("topic ASC").Find(&topics).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subject topics: %w", err)
	}

	return topics, total, nil
}
