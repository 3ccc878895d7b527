package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// mockRepository implements repositories.Repository for tests. Each
// sub-repository exposes overridable func fields; a nil func falls back
// to a not-found or empty result.
type mockRepository struct {
	catalog       *mockCatalogRepo
	teacher       *mockTeacherRepo
	student       *mockStudentRepo
	schedule      *mockScheduleRepo
	question      *mockQuestionRepo
	quiz          *mockQuizRepo
	publishedQuiz *mockPublishedQuizRepo
	task          *mockTaskRepo
	user          *mockUserRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		catalog:       &mockCatalogRepo{},
		teacher:       &mockTeacherRepo{},
		student:       &mockStudentRepo{},
		schedule:      &mockScheduleRepo{},
		question:      &mockQuestionRepo{},
		quiz:          &mockQuizRepo{},
		publishedQuiz: &mockPublishedQuizRepo{},
		task:          &mockTaskRepo{},
		user:          &mockUserRepo{},
	}
}

func (m *mockRepository) Catalog() repositories.CatalogRepository             { return m.catalog }
func (m *mockRepository) Teacher() repositories.TeacherRepository             { return m.teacher }
func (m *mockRepository) Student() repositories.StudentRepository             { return m.student }
func (m *mockRepository) Schedule() repositories.ScheduleRepository           { return m.schedule }
func (m *mockRepository) Question() repositories.QuestionRepository           { return m.question }
func (m *mockRepository) Quiz() repositories.QuizRepository                   { return m.quiz }
func (m *mockRepository) PublishedQuiz() repositories.PublishedQuizRepository { return m.publishedQuiz }
func (m *mockRepository) Task() repositories.TaskRepository                   { return m.task }
func (m *mockRepository) User() repositories.UserRepository                   { return m.user }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== CATALOG =====

type mockCatalogRepo struct {
	CreateSchoolFn              func(ctx context.Context, tx *gorm.DB, school *models.School) error
	GetSchoolFn                 func(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error)
	ListSchoolsFn               func(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.School, int64, error)
	CreateBoardFn               func(ctx context.Context, tx *gorm.DB, board *models.Board) error
	GetBoardFn                  func(ctx context.Context, tx *gorm.DB, id uint) (*models.Board, error)
	ListBoardsFn                func(ctx context.Context, tx *gorm.DB) ([]*models.Board, error)
	CreateGradeFn               func(ctx context.Context, tx *gorm.DB, grade *models.Grade) error
	GetGradeFn                  func(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error)
	ListGradesFn                func(ctx context.Context, tx *gorm.DB) ([]*models.Grade, error)
	CreateSectionFn             func(ctx context.Context, tx *gorm.DB, section *models.Section) error
	GetSectionFn                func(ctx context.Context, tx *gorm.DB, id uint) (*models.Section, error)
	ListSectionsFn              func(ctx context.Context, tx *gorm.DB) ([]*models.Section, error)
	CreateSubjectFn             func(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	GetSubjectFn                func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error)
	ListSubjectsFn              func(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)
	CreateDivisionFn            func(ctx context.Context, tx *gorm.DB, division *models.Division) error
	GetDivisionFn               func(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error)
	GetDivisionWithDetailsFn    func(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error)
	ListDivisionsFn             func(ctx context.Context, tx *gorm.DB, filters repositories.DivisionFilters) ([]*models.Division, int64, error)
	GetDivisionStatsFn          func(ctx context.Context, tx *gorm.DB, divisionID uint) (*repositories.DivisionStats, error)
	AssignSubjectToDivisionFn   func(ctx context.Context, tx *gorm.DB, rel *models.DivisionSubject) error
	SubjectAssignedToDivisionFn func(ctx context.Context, tx *gorm.DB, divisionID, subjectID uint) (bool, error)
	CreateSubjectTopicFn        func(ctx context.Context, tx *gorm.DB, topic *models.SubjectTopic) error
	GetSubjectTopicFn           func(ctx context.Context, tx *gorm.DB, id uint) (*models.SubjectTopic, error)
	ListSubjectTopicsFn         func(ctx context.Context, tx *gorm.DB, filters repositories.TopicFilters) ([]*models.SubjectTopic, int64, error)
}

func (m *mockCatalogRepo) CreateSchool(ctx context.Context, tx *gorm.DB, school *models.School) error {
	if m.CreateSchoolFn != nil {
		return m.CreateSchoolFn(ctx, tx, school)
	}
	return nil
}

func (m *mockCatalogRepo) GetSchool(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error) {
	if m.GetSchoolFn != nil {
		return m.GetSchoolFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListSchools(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.School, int64, error) {
	if m.ListSchoolsFn != nil {
		return m.ListSchoolsFn(ctx, tx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockCatalogRepo) CreateBoard(ctx context.Context, tx *gorm.DB, board *models.Board) error {
	if m.CreateBoardFn != nil {
		return m.CreateBoardFn(ctx, tx, board)
	}
	return nil
}

func (m *mockCatalogRepo) GetBoard(ctx context.Context, tx *gorm.DB, id uint) (*models.Board, error) {
	if m.GetBoardFn != nil {
		return m.GetBoardFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListBoards(ctx context.Context, tx *gorm.DB) ([]*models.Board, error) {
	if m.ListBoardsFn != nil {
		return m.ListBoardsFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateGrade(ctx context.Context, tx *gorm.DB, grade *models.Grade) error {
	if m.CreateGradeFn != nil {
		return m.CreateGradeFn(ctx, tx, grade)
	}
	return nil
}

func (m *mockCatalogRepo) GetGrade(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error) {
	if m.GetGradeFn != nil {
		return m.GetGradeFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListGrades(ctx context.Context, tx *gorm.DB) ([]*models.Grade, error) {
	if m.ListGradesFn != nil {
		return m.ListGradesFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateSection(ctx context.Context, tx *gorm.DB, section *models.Section) error {
	if m.CreateSectionFn != nil {
		return m.CreateSectionFn(ctx, tx, section)
	}
	return nil
}

func (m *mockCatalogRepo) GetSection(ctx context.Context, tx *gorm.DB, id uint) (*models.Section, error) {
	if m.GetSectionFn != nil {
		return m.GetSectionFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListSections(ctx context.Context, tx *gorm.DB) ([]*models.Section, error) {
	if m.ListSectionsFn != nil {
		return m.ListSectionsFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateSubject(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	if m.CreateSubjectFn != nil {
		return m.CreateSubjectFn(ctx, tx, subject)
	}
	return nil
}

func (m *mockCatalogRepo) GetSubject(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	if m.GetSubjectFn != nil {
		return m.GetSubjectFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListSubjects(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	if m.ListSubjectsFn != nil {
		return m.ListSubjectsFn(ctx, tx)
	}
	return nil, nil
}

func (m *mockCatalogRepo) CreateDivision(ctx context.Context, tx *gorm.DB, division *models.Division) error {
	if m.CreateDivisionFn != nil {
		return m.CreateDivisionFn(ctx, tx, division)
	}
	return nil
}

func (m *mockCatalogRepo) GetDivision(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
	if m.GetDivisionFn != nil {
		return m.GetDivisionFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) GetDivisionWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
	if m.GetDivisionWithDetailsFn != nil {
		return m.GetDivisionWithDetailsFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListDivisions(ctx context.Context, tx *gorm.DB, filters repositories.DivisionFilters) ([]*models.Division, int64, error) {
	if m.ListDivisionsFn != nil {
		return m.ListDivisionsFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockCatalogRepo) GetDivisionStats(ctx context.Context, tx *gorm.DB, divisionID uint) (*repositories.DivisionStats, error) {
	if m.GetDivisionStatsFn != nil {
		return m.GetDivisionStatsFn(ctx, tx, divisionID)
	}
	return &repositories.DivisionStats{}, nil
}

func (m *mockCatalogRepo) AssignSubjectToDivision(ctx context.Context, tx *gorm.DB, rel *models.DivisionSubject) error {
	if m.AssignSubjectToDivisionFn != nil {
		return m.AssignSubjectToDivisionFn(ctx, tx, rel)
	}
	return nil
}

func (m *mockCatalogRepo) SubjectAssignedToDivision(ctx context.Context, tx *gorm.DB, divisionID, subjectID uint) (bool, error) {
	if m.SubjectAssignedToDivisionFn != nil {
		return m.SubjectAssignedToDivisionFn(ctx, tx, divisionID, subjectID)
	}
	return false, nil
}

func (m *mockCatalogRepo) CreateSubjectTopic(ctx context.Context, tx *gorm.DB, topic *models.SubjectTopic) error {
	if m.CreateSubjectTopicFn != nil {
		return m.CreateSubjectTopicFn(ctx, tx, topic)
	}
	return nil
}

func (m *mockCatalogRepo) GetSubjectTopic(ctx context.Context, tx *gorm.DB, id uint) (*models.SubjectTopic, error) {
	if m.GetSubjectTopicFn != nil {
		return m.GetSubjectTopicFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListSubjectTopics(ctx context.Context, tx *gorm.DB, filters repositories.TopicFilters) ([]*models.SubjectTopic, int64, error) {
	if m.ListSubjectTopicsFn != nil {
		return m.ListSubjectTopicsFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

// ===== TEACHER =====

type mockTeacherRepo struct {
	CreateFn                   func(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByIDFn                  func(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByIDWithUserFn          func(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByUserIDFn              func(ctx context.Context, tx *gorm.DB, userID string) (*models.Teacher, error)
	ListFn                     func(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Teacher, int64, error)
	AssignSubjectFn            func(ctx context.Context, tx *gorm.DB, rel *models.TeacherDivisionSubject) error
	TeachesSubjectInDivisionFn func(ctx context.Context, tx *gorm.DB, teacherID, divisionID, subjectID uint) (bool, error)
}

func (m *mockTeacherRepo) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, teacher)
	}
	return nil
}

func (m *mockTeacherRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByIDWithUser(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	if m.GetByIDWithUserFn != nil {
		return m.GetByIDWithUserFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Teacher, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, tx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Teacher, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, schoolID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockTeacherRepo) AssignSubject(ctx context.Context, tx *gorm.DB, rel *models.TeacherDivisionSubject) error {
	if m.AssignSubjectFn != nil {
		return m.AssignSubjectFn(ctx, tx, rel)
	}
	return nil
}

func (m *mockTeacherRepo) TeachesSubjectInDivision(ctx context.Context, tx *gorm.DB, teacherID, divisionID, subjectID uint) (bool, error) {
	if m.TeachesSubjectInDivisionFn != nil {
		return m.TeachesSubjectInDivisionFn(ctx, tx, teacherID, divisionID, subjectID)
	}
	return false, nil
}

// ===== STUDENT =====

type mockStudentRepo struct {
	CreateFn               func(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByIDFn              func(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByUserIDFn          func(ctx context.Context, tx *gorm.DB, userID string) (*models.Student, error)
	ListFn                 func(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Student, int64, error)
	AssignDivisionFn       func(ctx context.Context, tx *gorm.DB, rel *models.StudentDivision) error
	GetCurrentDivisionFn   func(ctx context.Context, tx *gorm.DB, studentID uint) (*models.StudentDivision, error)
	GetCurrentByDivisionFn func(ctx context.Context, tx *gorm.DB, divisionID uint) ([]*models.StudentDivision, error)
}

func (m *mockStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, student)
	}
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Student, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, tx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(ctx context.Context, tx *gorm.DB, schoolID uint, limit, offset int) ([]*models.Student, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, schoolID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockStudentRepo) AssignDivision(ctx context.Context, tx *gorm.DB, rel *models.StudentDivision) error {
	if m.AssignDivisionFn != nil {
		return m.AssignDivisionFn(ctx, tx, rel)
	}
	return nil
}

func (m *mockStudentRepo) GetCurrentDivision(ctx context.Context, tx *gorm.DB, studentID uint) (*models.StudentDivision, error) {
	if m.GetCurrentDivisionFn != nil {
		return m.GetCurrentDivisionFn(ctx, tx, studentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetCurrentByDivision(ctx context.Context, tx *gorm.DB, divisionID uint) ([]*models.StudentDivision, error) {
	if m.GetCurrentByDivisionFn != nil {
		return m.GetCurrentByDivisionFn(ctx, tx, divisionID)
	}
	return nil, nil
}

// ===== SCHEDULE =====

type mockScheduleRepo struct {
	CreateFn                 func(ctx context.Context, tx *gorm.DB, schedule *models.ClassSchedule) error
	GetByIDFn                func(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error)
	GetByIDWithDetailsFn     func(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error)
	DeleteFn                 func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn                   func(ctx context.Context, tx *gorm.DB, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error)
	GetByTeacherFn           func(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error)
	GetByDivisionFn          func(ctx context.Context, tx *gorm.DB, divisionID uint, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error)
	GetActiveAtForTeacherFn  func(ctx context.Context, tx *gorm.DB, teacherID uint, date, at time.Time) (*models.ClassSchedule, error)
	GetActiveAtForDivisionFn func(ctx context.Context, tx *gorm.DB, divisionID uint, date, at time.Time) (*models.ClassSchedule, error)
	HasOverlapFn             func(ctx context.Context, tx *gorm.DB, teacherID uint, date, start, end time.Time) (bool, error)
	CreateTopicTagFn         func(ctx context.Context, tx *gorm.DB, rel *models.ClassDetailsRel) error
	IsTopicTaggedFn          func(ctx context.Context, tx *gorm.DB, scheduleID, topicID uint) (bool, error)
	GetTopicTagWithDetailsFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassDetailsRel, error)
	GetTopicTagsByScheduleFn func(ctx context.Context, tx *gorm.DB, scheduleID uint) ([]*models.ClassDetailsRel, error)
}

func (m *mockScheduleRepo) Create(ctx context.Context, tx *gorm.DB, schedule *models.ClassSchedule) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, schedule)
	}
	return nil
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassSchedule, error) {
	if m.GetByIDWithDetailsFn != nil {
		return m.GetByIDWithDetailsFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockScheduleRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockScheduleRepo) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error) {
	if m.GetByTeacherFn != nil {
		return m.GetByTeacherFn(ctx, tx, teacherID, filters)
	}
	return nil, 0, nil
}

func (m *mockScheduleRepo) GetByDivision(ctx context.Context, tx *gorm.DB, divisionID uint, filters repositories.ScheduleFilters) ([]*models.ClassSchedule, int64, error) {
	if m.GetByDivisionFn != nil {
		return m.GetByDivisionFn(ctx, tx, divisionID, filters)
	}
	return nil, 0, nil
}

func (m *mockScheduleRepo) GetActiveAtForTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, date, at time.Time) (*models.ClassSchedule, error) {
	if m.GetActiveAtForTeacherFn != nil {
		return m.GetActiveAtForTeacherFn(ctx, tx, teacherID, date, at)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetActiveAtForDivision(ctx context.Context, tx *gorm.DB, divisionID uint, date, at time.Time) (*models.ClassSchedule, error) {
	if m.GetActiveAtForDivisionFn != nil {
		return m.GetActiveAtForDivisionFn(ctx, tx, divisionID, date, at)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) HasOverlap(ctx context.Context, tx *gorm.DB, teacherID uint, date, start, end time.Time) (bool, error) {
	if m.HasOverlapFn != nil {
		return m.HasOverlapFn(ctx, tx, teacherID, date, start, end)
	}
	return false, nil
}

func (m *mockScheduleRepo) CreateTopicTag(ctx context.Context, tx *gorm.DB, rel *models.ClassDetailsRel) error {
	if m.CreateTopicTagFn != nil {
		return m.CreateTopicTagFn(ctx, tx, rel)
	}
	return nil
}

func (m *mockScheduleRepo) IsTopicTagged(ctx context.Context, tx *gorm.DB, scheduleID, topicID uint) (bool, error) {
	if m.IsTopicTaggedFn != nil {
		return m.IsTopicTaggedFn(ctx, tx, scheduleID, topicID)
	}
	return false, nil
}

func (m *mockScheduleRepo) GetTopicTagWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ClassDetailsRel, error) {
	if m.GetTopicTagWithDetailsFn != nil {
		return m.GetTopicTagWithDetailsFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetTopicTagsBySchedule(ctx context.Context, tx *gorm.DB, scheduleID uint) ([]*models.ClassDetailsRel, error) {
	if m.GetTopicTagsByScheduleFn != nil {
		return m.GetTopicTagsByScheduleFn(ctx, tx, scheduleID)
	}
	return nil, nil
}

// ===== QUESTION =====

type mockQuestionRepo struct {
	CreateFn        func(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByIDFn       func(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	UpdateFn        func(ctx context.Context, tx *gorm.DB, question *models.Question) error
	DeleteFn        func(ctx context.Context, tx *gorm.DB, id uint) error
	GetByIDsFn      func(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error)
	ListFn          func(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error)
	GetByAuthorFn   func(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuestionFilters) ([]*models.Question, int64, error)
	SearchFn        func(ctx context.Context, tx *gorm.DB, query string, filters repositories.QuestionFilters) ([]*models.Question, int64, error)
	ExistsByTitleFn func(ctx context.Context, tx *gorm.DB, title, authorID string, subjectID, divisionID, schoolID uint, excludeID *uint) (bool, error)
	IsOwnerFn       func(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error)
}

func (m *mockQuestionRepo) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, question)
	}
	return nil
}

func (m *mockQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuestionRepo) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, question)
	}
	return nil
}

func (m *mockQuestionRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, tx, ids)
	}
	return nil, nil
}

func (m *mockQuestionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockQuestionRepo) GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	if m.GetByAuthorFn != nil {
		return m.GetByAuthorFn(ctx, tx, authorID, filters)
	}
	return nil, 0, nil
}

func (m *mockQuestionRepo) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, tx, query, filters)
	}
	return nil, 0, nil
}

func (m *mockQuestionRepo) ExistsByTitle(ctx context.Context, tx *gorm.DB, title, authorID string, subjectID, divisionID, schoolID uint, excludeID *uint) (bool, error) {
	if m.ExistsByTitleFn != nil {
		return m.ExistsByTitleFn(ctx, tx, title, authorID, subjectID, divisionID, schoolID, excludeID)
	}
	return false, nil
}

func (m *mockQuestionRepo) IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error) {
	if m.IsOwnerFn != nil {
		return m.IsOwnerFn(ctx, tx, id, userID)
	}
	return false, nil
}

// ===== QUIZ =====

type mockQuizRepo struct {
	CreateFn               func(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByIDFn              func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetByIDWithDetailsFn   func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	UpdateFn               func(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	DeleteFn               func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn                 func(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error)
	GetByAuthorFn          func(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error)
	AddQuestionLinkFn      func(ctx context.Context, tx *gorm.DB, link *models.QuizQuestion) error
	AddQuestionLinksFn     func(ctx context.Context, tx *gorm.DB, links []*models.QuizQuestion) error
	GetLinkedQuestionIDsFn func(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error)
	MaxQuestionNumberFn    func(ctx context.Context, tx *gorm.DB, quizID uint) (int, error)
	GetActiveQuestionsFn   func(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.Question, error)
	GetQuestionsByStateFn  func(ctx context.Context, tx *gorm.DB, quizID uint) (*repositories.QuestionBuckets, error)
	IsOwnerFn              func(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error)
}

func (m *mockQuizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, quiz)
	}
	return nil
}

func (m *mockQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuizRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	if m.GetByIDWithDetailsFn != nil {
		return m.GetByIDWithDetailsFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuizRepo) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, quiz)
	}
	return nil
}

func (m *mockQuizRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockQuizRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockQuizRepo) GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	if m.GetByAuthorFn != nil {
		return m.GetByAuthorFn(ctx, tx, authorID, filters)
	}
	return nil, 0, nil
}

func (m *mockQuizRepo) AddQuestionLink(ctx context.Context, tx *gorm.DB, link *models.QuizQuestion) error {
	if m.AddQuestionLinkFn != nil {
		return m.AddQuestionLinkFn(ctx, tx, link)
	}
	return nil
}

func (m *mockQuizRepo) AddQuestionLinks(ctx context.Context, tx *gorm.DB, links []*models.QuizQuestion) error {
	if m.AddQuestionLinksFn != nil {
		return m.AddQuestionLinksFn(ctx, tx, links)
	}
	return nil
}

func (m *mockQuizRepo) GetLinkedQuestionIDs(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error) {
	if m.GetLinkedQuestionIDsFn != nil {
		return m.GetLinkedQuestionIDsFn(ctx, tx, quizID)
	}
	return nil, nil
}

func (m *mockQuizRepo) MaxQuestionNumber(ctx context.Context, tx *gorm.DB, quizID uint) (int, error) {
	if m.MaxQuestionNumberFn != nil {
		return m.MaxQuestionNumberFn(ctx, tx, quizID)
	}
	return 0, nil
}

func (m *mockQuizRepo) GetActiveQuestions(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.Question, error) {
	if m.GetActiveQuestionsFn != nil {
		return m.GetActiveQuestionsFn(ctx, tx, quizID)
	}
	return nil, nil
}

func (m *mockQuizRepo) GetQuestionsByState(ctx context.Context, tx *gorm.DB, quizID uint) (*repositories.QuestionBuckets, error) {
	if m.GetQuestionsByStateFn != nil {
		return m.GetQuestionsByStateFn(ctx, tx, quizID)
	}
	return &repositories.QuestionBuckets{}, nil
}

func (m *mockQuizRepo) IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error) {
	if m.IsOwnerFn != nil {
		return m.IsOwnerFn(ctx, tx, id, userID)
	}
	return false, nil
}

// ===== PUBLISHED QUIZ =====

type mockPublishedQuizRepo struct {
	CreateFn                      func(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error
	GetByIDFn                     func(ctx context.Context, tx *gorm.DB, id uint) (*models.PublishedQuiz, error)
	GetByDivisionFn               func(ctx context.Context, tx *gorm.DB, divisionID uint, limit, offset int) ([]*models.PublishedQuiz, int64, error)
	ExistsFn                      func(ctx context.Context, tx *gorm.DB, quizID, divisionID, schoolID uint, quizType models.QuizType) (bool, error)
	CreateResponsesFn             func(ctx context.Context, tx *gorm.DB, responses []*models.StudentQuizResponseRel) error
	GetResponsesByPublishedQuizFn func(ctx context.Context, tx *gorm.DB, publishedQuizID uint) ([]*models.StudentQuizResponseRel, error)
	GetPublishStatsFn             func(ctx context.Context, tx *gorm.DB, divisionID uint) (*repositories.PublishStats, error)
}

func (m *mockPublishedQuizRepo) Create(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, published)
	}
	return nil
}

func (m *mockPublishedQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PublishedQuiz, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPublishedQuizRepo) GetByDivision(ctx context.Context, tx *gorm.DB, divisionID uint, limit, offset int) ([]*models.PublishedQuiz, int64, error) {
	if m.GetByDivisionFn != nil {
		return m.GetByDivisionFn(ctx, tx, divisionID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockPublishedQuizRepo) Exists(ctx context.Context, tx *gorm.DB, quizID, divisionID, schoolID uint, quizType models.QuizType) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, tx, quizID, divisionID, schoolID, quizType)
	}
	return false, nil
}

func (m *mockPublishedQuizRepo) CreateResponses(ctx context.Context, tx *gorm.DB, responses []*models.StudentQuizResponseRel) error {
	if m.CreateResponsesFn != nil {
		return m.CreateResponsesFn(ctx, tx, responses)
	}
	return nil
}

func (m *mockPublishedQuizRepo) GetResponsesByPublishedQuiz(ctx context.Context, tx *gorm.DB, publishedQuizID uint) ([]*models.StudentQuizResponseRel, error) {
	if m.GetResponsesByPublishedQuizFn != nil {
		return m.GetResponsesByPublishedQuizFn(ctx, tx, publishedQuizID)
	}
	return nil, nil
}

func (m *mockPublishedQuizRepo) GetPublishStats(ctx context.Context, tx *gorm.DB, divisionID uint) (*repositories.PublishStats, error) {
	if m.GetPublishStatsFn != nil {
		return m.GetPublishStatsFn(ctx, tx, divisionID)
	}
	return &repositories.PublishStats{}, nil
}

// ===== TASK =====

type mockTaskRepo struct {
	CreateFn             func(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error
	GetByIDFn            func(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error)
	GetByIDWithDetailsFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error)
	UpdateFn             func(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error
	DeleteFn             func(ctx context.Context, tx *gorm.DB, id uint) error
	ListFn               func(ctx context.Context, tx *gorm.DB, filters repositories.TaskFilters) ([]*models.TeacherTask, int64, error)
	GetByTeacherFn       func(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.TaskFilters) ([]*models.TeacherTask, int64, error)
	ExistsDuplicateFn    func(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) (bool, error)
	SetPublishedQuizFn   func(ctx context.Context, tx *gorm.DB, taskID, publishedQuizID uint) error
	GetTaskStatsFn       func(ctx context.Context, tx *gorm.DB, teacherID uint) (*repositories.TeacherTaskStats, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx, task)
	}
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error) {
	if m.GetByIDWithDetailsFn != nil {
		return m.GetByIDWithDetailsFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) Update(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx, task)
	}
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockTaskRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.TaskFilters) ([]*models.TeacherTask, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tx, filters)
	}
	return nil, 0, nil
}

func (m *mockTaskRepo) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.TaskFilters) ([]*models.TeacherTask, int64, error) {
	if m.GetByTeacherFn != nil {
		return m.GetByTeacherFn(ctx, tx, teacherID, filters)
	}
	return nil, 0, nil
}

func (m *mockTaskRepo) ExistsDuplicate(ctx context.Context, tx *gorm.DB, task *models.TeacherTask) (bool, error) {
	if m.ExistsDuplicateFn != nil {
		return m.ExistsDuplicateFn(ctx, tx, task)
	}
	return false, nil
}

func (m *mockTaskRepo) SetPublishedQuiz(ctx context.Context, tx *gorm.DB, taskID, publishedQuizID uint) error {
	if m.SetPublishedQuizFn != nil {
		return m.SetPublishedQuizFn(ctx, tx, taskID, publishedQuizID)
	}
	return nil
}

func (m *mockTaskRepo) GetTaskStats(ctx context.Context, tx *gorm.DB, teacherID uint) (*repositories.TeacherTaskStats, error) {
	if m.GetTaskStatsFn != nil {
		return m.GetTaskStatsFn(ctx, tx, teacherID)
	}
	return &repositories.TeacherTaskStats{}, nil
}

// ===== USER =====

type mockUserRepo struct {
	GetByIDFn    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*models.User, error)
	GetByIDsFn   func(ctx context.Context, ids []string) ([]*models.User, error)
	ListFn       func(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
	ExistsByIDFn func(ctx context.Context, id string) (bool, error)
	HasRoleFn    func(ctx context.Context, id string, role models.UserRole) (bool, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	if m.ExistsByIDFn != nil {
		return m.ExistsByIDFn(ctx, id)
	}
	return false, nil
}

func (m *mockUserRepo) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	if m.HasRoleFn != nil {
		return m.HasRoleFn(ctx, id, role)
	}
	return false, nil
}

// withUserRole wires the user directory to answer with a fixed role.
func (m *mockRepository) withUserRole(userID string, role models.UserRole) {
	m.user.GetByIDFn = func(ctx context.Context, id string) (*models.User, error) {
		if id != userID {
			return nil, gorm.ErrRecordNotFound
		}
		return &models.User{ID: id, Role: role}, nil
	}
}
