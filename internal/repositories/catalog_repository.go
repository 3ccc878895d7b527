package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository interface for the academic catalog: schools, boards,
// grades, sections, subjects, divisions and their assignment tables.
type CatalogRepository interface {
	// Schools
	CreateSchool(ctx context.Context, tx *gorm.DB, school *models.School) error
	GetSchool(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error)
	ListSchools(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.School, int64, error)

	// Boards, grades, sections
	CreateBoard(ctx context.Context, tx *gorm.DB, board *models.Board) error
	GetBoard(ctx context.Context, tx *gorm.DB, id uint) (*models.Board, error)
	ListBoards(ctx context.Context, tx *gorm.DB) ([]*models.Board, error)
	CreateGrade(ctx context.Context, tx *gorm.DB, grade *models.Grade) error
	GetGrade(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error)
	ListGrades(ctx context.Context, tx *gorm.DB) ([]*models.Grade, error)
	CreateSection(ctx context.Context, tx *gorm.DB, section *models.Section) error
	GetSection(ctx context.Context, tx *gorm.DB, id uint) (*models.Section, error)
	ListSections(ctx context.Context, tx *gorm.DB) ([]*models.Section, error)

	// Subjects
	CreateSubject(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	GetSubject(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error)
	ListSubjects(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)

	// Divisions
	CreateDivision(ctx context.Context, tx *gorm.DB, division *models.Division) error
	GetDivision(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error)
	GetDivisionWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) // Preloads grade, section, school
	ListDivisions(ctx context.Context, tx *gorm.DB, filters DivisionFilters) ([]*models.Division, int64, error)
	GetDivisionStats(ctx context.Context, tx *gorm.DB, divisionID uint) (*DivisionStats, error)

	// Division-subject assignments
	AssignSubjectToDivision(ctx context.Context, tx *gorm.DB, rel *models.DivisionSubject) error
	SubjectAssignedToDivision(ctx context.Context, tx *gorm.DB, divisionID, subjectID uint) (bool, error)

	// Subject topics
	CreateSubjectTopic(ctx context.Context, tx *gorm.DB, topic *models.SubjectTopic) error
	GetSubjectTopic(ctx context.Context, tx *gorm.DB, id uint) (*models.SubjectTopic, error)
	ListSubjectTopics(ctx context.Context, tx *gorm.DB, filters TopicFilters) ([]*models.SubjectTopic, int64, error)
}

// TeacherRepository interface for teacher profiles and teaching assignments
type TeacherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByIDWithUser(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Teacher, error)
	List(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Teacher, int64, error)

	// Teaching assignments
	AssignSubject(ctx context.Context, tx *gorm.DB, rel *models.TeacherDivisionSubject) error
	TeachesSubjectInDivision(ctx context.Context, tx *gorm.DB, teacherID, divisionID, subjectID uint) (bool, error)
}

// StudentRepository interface for student profiles and division placement
type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Student, error)
	List(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Student, int64, error)

	// Division placement
	AssignDivision(ctx context.Context, tx *gorm.DB, rel *models.StudentDivision) error
	GetCurrentDivision(ctx context.Context, tx *gorm.DB, studentID uint) (*models.StudentDivision, error)

	// GetCurrentByDivision lists the placements the publish fan-out
	// targets: rows for the division with IsCurrent set.
	GetCurrentByDivision(ctx context.Context, tx *gorm.DB, divisionID uint) ([]*models.StudentDivision, error)
}
