package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"gorm.io/gorm"
)

// ScheduleRepository interface for class schedule and topic tag operations
type ScheduleRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, schedule *models.ClassSchedule) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error) // Preloads subject, teacher, division
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters ScheduleFilters) ([]*models.ClassSchedule, int64, error)
	GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters ScheduleFilters) ([]*models.ClassSchedule, int64, error)
	GetByDivision(ctx context.Context, tx *gorm.DB, divisionID uint, filters ScheduleFilters) ([]*models.ClassSchedule, int64, error)

	// GetActiveAt resolves the slot covering the given instant on a date,
	// scoped to either a teacher or a division.
	GetActiveAtForTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, date time.Time, at time.Time) (*models.ClassSchedule, error)
	GetActiveAtForDivision(ctx context.Context, tx *gorm.DB, divisionID uint, date time.Time, at time.Time) (*models.ClassSchedule, error)

	// HasOverlap reports whether any slot for the teacher on the date
	// overlaps [start, end) as a half-open interval.
	HasOverlap(ctx context.Context, tx *gorm.DB, teacherID uint, date time.Time, start, end time.Time) (bool, error)

	// Topic tagging
	CreateTopicTag(ctx context.Context, tx *gorm.DB, rel *models.ClassDetailsRel) error
	IsTopicTagged(ctx context.Context, tx *gorm.DB, scheduleID, topicID uint) (bool, error)
	GetTopicTagWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassDetailsRel, error)
	GetTopicTagsBySchedule(ctx context.Context, tx *gorm.DB, scheduleID uint) ([]*models.ClassDetailsRel, error)
}
