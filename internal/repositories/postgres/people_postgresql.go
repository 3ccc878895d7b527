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

type TeacherPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewTeacherPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.TeacherRepository {
	return &TeacherPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (t *TeacherPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return t.db
}

func (t *TeacherPostgreSQL) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	if err := t.getDB(tx).WithContext(ctx).Create(teacher).Error; err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}
	return nil
}

func (t *TeacherPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := t.getDB(tx).WithContext(ctx).First(&teacher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return &teacher, nil
}

func (t *TeacherPostgreSQL) GetByIDWithUser(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	err := t.getDB(tx).WithContext(ctx).Preload("User").First(&teacher, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher with user: %w", err)
	}
	return &teacher, nil
}

func (t *TeacherPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := t.getDB(tx).WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher for user %s: %w", userID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher by user: %w", err)
	}
	return &teacher, nil
}

func (t *TeacherPostgreSQL) List(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Teacher, int64, error) {
	db := t.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Teacher{}).Where("school_id = ?", schoolID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count teachers: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var teachers []*models.Teacher
	if err := query.Preload("User").Find(&teachers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list teachers: %w", err)
	}
	return teachers, total, nil
}

func (t *TeacherPostgreSQL) AssignSubject(ctx context.Context, tx *gorm.DB, rel *models.TeacherDivisionSubject) error {
	if err := t.getDB(tx).WithContext(ctx).Create(rel).Error; err != nil {
		return fmt.Errorf("failed to assign subject to teacher: %w", err)
	}
	cache.SafeDelete(ctx, t.cacheManager.Exists,
		fmt.Sprintf("teacher_subject:%d:%d:%d", rel.TeacherID, rel.DivisionID, rel.SubjectID))
	return nil
}

func (t *TeacherPostgreSQL) TeachesSubjectInDivision(ctx context.Context, tx *gorm.DB, teacherID, divisionID, subjectID uint) (bool, error) {
	db := t.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.TeacherDivisionSubject{}).
		Where("teacher_id = ? AND division_id = ? AND subject_id = ?", teacherID, divisionID, subjectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check teaching assignment: %w", err)
	}
	return count > 0, nil
}

type StudentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStudentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if err := s.getDB(tx).WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	var student models.Student
	if err := s.getDB(tx).WithContext(ctx).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Student, error) {
	var student models.Student
	err := s.getDB(tx).WithContext(ctx).Where("user_id = ?", userID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student for user %s: %w", userID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get student by user: %w", err)
	}
	return &student, nil
}

func (s *StudentPostgreSQL) List(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Student, int64, error) {
	db := s.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Student{}).Where("school_id = ?", schoolID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var students []*models.Student
	if err := query.Preload("User").Find(&students).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	return students, total, nil
}

func (s *StudentPostgreSQL) AssignDivision(ctx context.Context, tx *gorm.DB, rel *models.StudentDivision) error {
	if err := s.getDB(tx).WithContext(ctx).Create(rel).Error; err != nil {
		return fmt.Errorf("failed to assign student to division: %w", err)
	}
	return nil
}

func (s *StudentPostgreSQL) GetCurrentDivision(ctx context.Context, tx *gorm.DB, studentID uint) (*models.StudentDivision, error) {
	var rel models.StudentDivision
	err := s.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND is_current", studentID).
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("current division for student %d: %w", studentID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get current division: %w", err)
	}
	return &rel, nil
}

// GetCurrentByDivision returns the rows the publish fan-out targets.
func (s *StudentPostgreSQL) GetCurrentByDivision(ctx context.Context, tx *gorm.DB, divisionID uint) ([]*models.StudentDivision, error) {
	db := s.getDB(tx)
	var rels []*models.StudentDivision
	err := db.WithContext(ctx).
		Where("division_id = ? AND is_current", divisionID).
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get current students for division: %w", err)
	}
	return rels, nil
}
