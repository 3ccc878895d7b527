package postgres

import (
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyScheduleFilters applies common filters to schedule queries
func (h *SharedHelpers) ApplyScheduleFilters(query *gorm.DB, filters repositories.ScheduleFilters) *gorm.DB {
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.DivisionID != nil {
		query = query.Where("division_id = ?", *filters.DivisionID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.Date != nil {
		query = query.Where("date = ?", *filters.Date)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	return query
}

// ApplyQuestionFilters applies common filters to question queries
func (h *SharedHelpers) ApplyQuestionFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.State != nil {
		query = query.Where("state = ?", *filters.State)
	}
	if filters.AuthorID != nil {
		query = query.Where("user_id = ?", *filters.AuthorID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.DivisionID != nil {
		query = query.Where("division_id = ?", *filters.DivisionID)
	}
	if filters.SchoolID != nil {
		query = query.Where("school_id = ?", *filters.SchoolID)
	}
	if filters.Topic != nil {
		query = query.Where("topic = ?", *filters.Topic)
	}
	return query
}

// ApplyQuizFilters applies common filters to quiz queries
func (h *SharedHelpers) ApplyQuizFilters(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	if filters.QuizType != nil {
		query = query.Where("quiz_type = ?", *filters.QuizType)
	}
	if filters.AuthorID != nil {
		query = query.Where("user_id = ?", *filters.AuthorID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.DivisionID != nil {
		query = query.Where("division_id = ?", *filters.DivisionID)
	}
	if filters.SchoolID != nil {
		query = query.Where("school_id = ?", *filters.SchoolID)
	}
	if filters.IsPublic != nil {
		query = query.Where("is_public = ?", *filters.IsPublic)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_date <= ?", *filters.DateTo)
	}
	return query
}

// ApplyTaskFilters applies common filters to task queries
func (h *SharedHelpers) ApplyTaskFilters(query *gorm.DB, filters repositories.TaskFilters) *gorm.DB {
	if filters.TaskType != nil {
		query = query.Where("task_type = ?", *filters.TaskType)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.DivisionID != nil {
		query = query.Where("division_id = ?", *filters.DivisionID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("end_date <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"title":      true,
		"date":       true,
		"start_time": true,
		"start_date": true,
		"period":     true,
		"state":      true,
		"status":     true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
