package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/school-admin-service/internal/cache"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

type SchedulePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSchedulePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ScheduleRepository {
	return &SchedulePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *SchedulePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// ===== BASIC CRUD OPERATIONS =====

// Create inserts a schedule slot and invalidates teacher/division reads
func (s *SchedulePostgreSQL) Create(ctx context.Context, tx *gorm.DB, schedule *models.ClassSchedule) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("failed to create class schedule: %w", err)
	}

	cache.InvalidateScheduleCache(ctx, s.cacheManager, schedule.TeacherID, schedule.DivisionID)

	return nil
}

func (s *SchedulePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error) {
	db := s.getDB(tx)
	var schedule models.ClassSchedule
	if err := db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("class schedule %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get class schedule: %w", err)
	}
	return &schedule, nil
}

// GetByIDWithDetails retrieves a schedule with joined display entities
func (s *SchedulePostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error) {
	db := s.getDB(tx)
	var schedule models.ClassSchedule
	if err := db.WithContext(ctx).
		Preload("Subject").
		Preload("Division.Grade").
		Preload("Division.Section").
		Preload("Teacher.User").
		First(&schedule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("class schedule %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get class schedule with details: %w", err)
	}
	return &schedule, nil
}

func (s *SchedulePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := s.getDB(tx)

	var schedule models.ClassSchedule
	if err := db.WithContext(ctx).Select("id, teacher_id, division_id").First(&schedule, id).Error; err != nil {
		return fmt.Errorf("failed to get class schedule before delete: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.ClassSchedule{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete class schedule: %w", err)
	}

	cache.InvalidateScheduleCache(ctx, s.cacheManager, schedule.TeacherID, schedule.DivisionID)

	return nil
}

// ===== QUERY OPERATIONS =====

func (s *SchedulePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error) {
	db := s.getDB(tx)

	query := db.WithContext(ctx).Model(&models.ClassSchedule{})
	query = s.helpers.ApplyScheduleFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count class schedules: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "date"
	}
	query = s.helpers.ApplyPaginationAndSort(query, sortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var schedules []*models.ClassSchedule
	if err := query.
		Preload("Subject").
		Preload("Division.Grade").
		Preload("Division.Section").
		Preload("Teacher.User").
		Find(&schedules).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list class schedules: %w", err)
	}

	return schedules, total, nil
}

func (s *SchedulePostgreSQL) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error) {
	filters.TeacherID = &teacherID
	return s.List(ctx, tx, filters)
}

func (s *SchedulePostgreSQL) GetByDivision(ctx context.Context, tx *gorm.DB, divisionID uint, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error) {
	filters.DivisionID = &divisionID
	return s.List(ctx, tx, filters)
}

func (s *SchedulePostgreSQL) GetActiveAtForTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, date time.Time, at time.Time) (*models.ClassSchedule, error) {
	return s.getActiveAt(ctx, tx, "teacher_id = ?", teacherID, date, at)
}

func (s *SchedulePostgreSQL) GetActiveAtForDivision(ctx context.Context, tx *gorm.DB, divisionID uint, date time.Time, at time.Time) (*models.ClassSchedule, error) {
	return s.getActiveAt(ctx, tx, "division_id = ?", divisionID, date, at)
}

func (s *SchedulePostgreSQL) getActiveAt(ctx context.Context, tx *gorm.DB, cond string, id uint, date time.Time, at time.Time) (*models.ClassSchedule, error) {
	db := s.getDB(tx)
	var schedule models.ClassSchedule
	err := db.WithContext(ctx).
		Where(cond, id).
		Where("date = ?", date).
		Where("start_time <= ? AND end_time > ?", at, at).
		Preload("Subject").
		Preload("Division.Grade").
		Preload("Division.Section").
		Preload("Teacher.User").
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no class active at the given time: %w", gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to resolve active class: %w", err)
	}
	return &schedule, nil
}

// HasOverlap checks half-open interval overlap for the teacher's day.
// Touching boundaries do not count, so back-to-back periods pass.
//
// The teacher row is locked first: a plain count inside READ COMMITTED
// would let two concurrent creates both see zero overlaps and both
// insert, and FOR UPDATE on the schedule rows cannot lock rows that do
// not exist yet. Callers run this inside the create transaction.
func (s *SchedulePostgreSQL) HasOverlap(ctx context.Context, tx *gorm.DB, teacherID uint, date time.Time, start, end time.Time) (bool, error) {
	db := s.getDB(tx)

	var teacher models.Teacher
	if err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&teacher, teacherID).Error; err != nil {
		return false, fmt.Errorf("failed to lock teacher for overlap check: %w", err)
	}

	var count int64
	err := db.WithContext(ctx).
		Model(&models.ClassSchedule{}).
		Where("teacher_id = ? AND date = ?", teacherID, date).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check schedule overlap: %w", err)
	}
	return count > 0, nil
}

// ===== TOPIC TAGGING =====

func (s *SchedulePostgreSQL) CreateTopicTag(ctx context.Context, tx *gorm.DB, rel *models.ClassDetailsRel) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(rel).Error; err != nil {
		return fmt.Errorf("failed to create topic tag: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, s.cacheManager.Schedule, fmt.Sprintf("topics:%d*", rel.ClassScheduleID))

	return nil
}

func (s *SchedulePostgreSQL) IsTopicTagged(ctx context.Context, tx *gorm.DB, scheduleID, topicID uint) (bool, error) {
	db := s.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.ClassDetailsRel{}).
		Where("class_schedule_id = ? AND subject_topic_id = ?", scheduleID, topicID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check topic tag: %w", err)
	}
	return count > 0, nil
}

// GetTopicTagWithDetails loads the tag with everything the detail view
// joins: schedule, subject, teacher, division, grade, section and board.
func (s *SchedulePostgreSQL) GetTopicTagWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassDetailsRel, error) {
	db := s.getDB(tx)
	var rel models.ClassDetailsRel
	err := db.WithContext(ctx).
		Preload("ClassSchedule.Subject").
		Preload("ClassSchedule.Teacher.User").
		Preload("ClassSchedule.Division.Grade").
		Preload("ClassSchedule.Division.Section").
		Preload("SubjectTopic.Subject").
		Preload("SubjectTopic.Board").
		Preload("SubjectTopic.Grade").
		First(&rel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("topic tag %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get topic tag with details: %w", err)
	}
	return &rel, nil
}

func (s *SchedulePostgreSQL) GetTopicTagsBySchedule(ctx context.Context, tx *gorm.DB, scheduleID uint) ([]*models.ClassDetailsRel, error) {
	db := s.getDB(tx)
	var rels []*models.ClassDetailsRel
	err := db.WithContext(ctx).
		Where("class_schedule_id = ?", scheduleID).
		Preload("SubjectTopic").
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get topic tags for schedule: %w", err)
	}
	return rels, nil
}
