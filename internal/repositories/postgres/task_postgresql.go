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

type TaskPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewTaskPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.TaskRepository {
	return &TaskPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (t *TaskPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return t.db
}

func (t *TaskPostgreSQL) Create(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create teacher task: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, t.cacheManager.Fast, fmt.Sprintf("tasks:teacher:%d*", task.TeacherID))

	return nil
}

func (t *TaskPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error) {
	db := t.getDB(tx)
	var task models.TeacherTask
	if err := db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher task %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher task: %w", err)
	}
	return &task, nil
}

func (t *TaskPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error) {
	db := t.getDB(tx)
	var task models.TeacherTask
	if err := db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher.User").
		Preload("Division.Grade").
		Preload("Division.Section").
		Preload("Quiz").
		First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher task %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher task with details: %w", err)
	}
	return &task, nil
}

func (t *TaskPostgreSQL) Update(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to update teacher task: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, t.cacheManager.Fast, fmt.Sprintf("tasks:teacher:%d*", task.TeacherID))

	return nil
}

func (t *TaskPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := t.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.TeacherTask{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete teacher task: %w", err)
	}
	return nil
}

func (t *TaskPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.TaskFilters) ([]*models.TeacherTask, int64, error) {
	db := t.getDB(tx)

	query := db.WithContext(ctx).Model(&models.TeacherTask{})
	query = t.helpers.ApplyTaskFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count teacher tasks: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "start_date"
	}
	query = t.helpers.ApplyPaginationAndSort(query, sortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var tasks []*models.TeacherTask
	if err := query.Preload("Quiz").Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list teacher tasks: %w", err)
	}

	return tasks, total, nil
}

func (t *TaskPostgreSQL) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.TaskFilters) ([]*models.TeacherTask, int64, error) {
	filters.TeacherID = &teacherID
	return t.List(ctx, tx, filters)
}

// ExistsDuplicate checks the task uniqueness tuple before insert.
func (t *TaskPostgreSQL) ExistsDuplicate(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) (bool, error) {
	db := t.getDB(tx)

	query := db.WithContext(ctx).
		Model(&models.TeacherTask{}).
		Where("title = ? AND task_type = ? AND subject_id = ? AND teacher_id = ? AND division_id = ?",
			task.Title, task.TaskType, task.SubjectID, task.TeacherID, task.DivisionID)
	if task.ClassScheduleID != nil {
		query = query.Where("class_schedule_id = ?", *task.ClassScheduleID)
	} else {
		query = query.Where("class_schedule_id IS NULL")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check task duplicate: %w", err)
	}
	return count > 0, nil
}

// SetPublishedQuiz links the snapshot onto the task after publication.
func (t *TaskPostgreSQL) SetPublishedQuiz(ctx context.Context, tx *gorm.DB, taskID, publishedQuizID uint) error {
	db := t.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.TeacherTask{}).
		Where("id = ?", taskID).
		Update("published_quiz_id", publishedQuizID)
	if result.Error != nil {
		return fmt.Errorf("failed to link published quiz to task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("teacher task %d: %w", taskID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (t *TaskPostgreSQL) GetTaskStats(ctx context.Context, tx *gorm.DB, teacherID uint) (*repositories.TeacherTaskStats, error) {
	db := t.getDB(tx)

	stats := &repositories.TeacherTaskStats{
		TasksByType: make(map[models.TaskType]int),
	}

	rows, err := db.WithContext(ctx).
		Model(&models.TeacherTask{}).
		Where("teacher_id = ?", teacherID).
		Select("task_type, status, COUNT(*)").
		Group("task_type, status").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to get task stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskType models.TaskType
		var status models.TaskStatus
		var count int
		if err := rows.Scan(&taskType, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan task stats: %w", err)
		}
		stats.TotalTasks += count
		stats.TasksByType[taskType] += count
		switch status {
		case models.TaskStatusActive:
			stats.ActiveTasks += count
		case models.TaskStatusCompleted:
			stats.CompletedTasks += count
		}
	}

	return stats, nil
}
