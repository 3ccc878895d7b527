package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

func newCatalogServiceForTest(repo *mockRepository) *catalogService {
	return &catalogService{
		repo:      repo,
		logger:    testLogger(),
		validator: validator.NewValidator(),
	}
}

func uintPtr(v uint) *uint { return &v }

func TestCatalogService_CreateSchool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates school under an existing board", func(t *testing.T) {
		repo := newMockRepository()
		repo.catalog.GetBoardFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Board, error) {
			return &models.Board{ID: id, Name: "State Board"}, nil
		}
		repo.catalog.CreateSchoolFn = func(ctx context.Context, tx *gorm.DB, school *models.School) error {
			school.ID = 1
			return nil
		}

		service := newCatalogServiceForTest(repo)

		school, err := service.CreateSchool(ctx, &CreateSchoolRequest{
			Name:    "Springfield High",
			City:    strPtr("Springfield"),
			BoardID: uintPtr(2),
		})
		if err != nil {
			t.Fatalf("CreateSchool failed: %v", err)
		}
		if school.ID != 1 || school.Name != "Springfield High" {
			t.Errorf("Unexpected school: %+v", school)
		}
	})

	t.Run("unknown board is rejected", func(t *testing.T) {
		service := newCatalogServiceForTest(newMockRepository())

		_, err := service.CreateSchool(ctx, &CreateSchoolRequest{
			Name:    "Springfield High",
			BoardID: uintPtr(99),
		})
		if !errors.Is(err, ErrBoardNotFound) {
			t.Fatalf("Expected ErrBoardNotFound, got %v", err)
		}
	})

	t.Run("board is optional", func(t *testing.T) {
		service := newCatalogServiceForTest(newMockRepository())

		if _, err := service.CreateSchool(ctx, &CreateSchoolRequest{Name: "Springfield High"}); err != nil {
			t.Fatalf("CreateSchool without board failed: %v", err)
		}
	})

	t.Run("duplicate name maps to conflict", func(t *testing.T) {
		repo := newMockRepository()
		repo.catalog.CreateSchoolFn = func(ctx context.Context, tx *gorm.DB, school *models.School) error {
			return gorm.ErrDuplicatedKey
		}

		service := newCatalogServiceForTest(repo)

		_, err := service.CreateSchool(ctx, &CreateSchoolRequest{Name: "Springfield High"})
		if !errors.Is(err, ErrDuplicateAssignment) {
			t.Fatalf("Expected ErrDuplicateAssignment, got %v", err)
		}
	})
}

func TestCatalogService_CreateDivision(t *testing.T) {
	ctx := context.Background()

	setupRepo := func() *mockRepository {
		repo := newMockRepository()
		repo.catalog.GetGradeFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error) {
			return &models.Grade{ID: id, Name: "Grade 6"}, nil
		}
		repo.catalog.GetSectionFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Section, error) {
			return &models.Section{ID: id, Name: "B"}, nil
		}
		repo.catalog.GetSchoolFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error) {
			return &models.School{ID: id, Name: "Springfield High"}, nil
		}
		return repo
	}

	request := func() *CreateDivisionRequest {
		return &CreateDivisionRequest{
			GradeID:      6,
			SectionID:    2,
			AcademicYear: "2026-2027",
			SchoolID:     1,
		}
	}

	t.Run("creates division", func(t *testing.T) {
		repo := setupRepo()
		repo.catalog.CreateDivisionFn = func(ctx context.Context, tx *gorm.DB, division *models.Division) error {
			division.ID = 10
			return nil
		}

		service := newCatalogServiceForTest(repo)

		division, err := service.CreateDivision(ctx, request())
		if err != nil {
			t.Fatalf("CreateDivision failed: %v", err)
		}
		if division.ID != 10 || division.AcademicYear != "2026-2027" {
			t.Errorf("Unexpected division: %+v", division)
		}
	})

	t.Run("missing grade is rejected", func(t *testing.T) {
		repo := setupRepo()
		repo.catalog.GetGradeFn = nil

		service := newCatalogServiceForTest(repo)

		if _, err := service.CreateDivision(ctx, request()); !errors.Is(err, ErrGradeNotFound) {
			t.Fatalf("Expected ErrGradeNotFound, got %v", err)
		}
	})

	t.Run("malformed academic year fails validation", func(t *testing.T) {
		service := newCatalogServiceForTest(setupRepo())

		req := request()
		req.AcademicYear = "2026/27"

		_, err := service.CreateDivision(ctx, req)
		var validationErrs ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Fatalf("Expected validation errors, got %v", err)
		}
	})
}

func TestCatalogService_AssignSubjectToDivision(t *testing.T) {
	ctx := context.Background()

	setupRepo := func() *mockRepository {
		repo := newMockRepository()
		repo.catalog.GetDivisionFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
			return &models.Division{ID: id}, nil
		}
		repo.catalog.GetSubjectFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
			return &models.Subject{ID: id, Name: "Mathematics"}, nil
		}
		return repo
	}

	request := &DivisionSubjectRequest{DivisionID: 10, SubjectID: 3, SchoolID: 1}

	t.Run("assigns subject", func(t *testing.T) {
		repo := setupRepo()
		var assigned *models.DivisionSubject
		repo.catalog.AssignSubjectToDivisionFn = func(ctx context.Context, tx *gorm.DB, rel *models.DivisionSubject) error {
			assigned = rel
			return nil
		}

		service := newCatalogServiceForTest(repo)

		if err := service.AssignSubjectToDivision(ctx, request); err != nil {
			t.Fatalf("AssignSubjectToDivision failed: %v", err)
		}
		if assigned == nil || assigned.DivisionID != 10 || assigned.SubjectID != 3 {
			t.Errorf("Unexpected assignment: %+v", assigned)
		}
	})

	t.Run("repeat assignment is rejected", func(t *testing.T) {
		repo := setupRepo()
		repo.catalog.SubjectAssignedToDivisionFn = func(ctx context.Context, tx *gorm.DB, divisionID, subjectID uint) (bool, error) {
			return true, nil
		}

		service := newCatalogServiceForTest(repo)

		if err := service.AssignSubjectToDivision(ctx, request); !errors.Is(err, ErrDuplicateAssignment) {
			t.Fatalf("Expected ErrDuplicateAssignment, got %v", err)
		}
	})

	t.Run("unknown subject is rejected", func(t *testing.T) {
		repo := setupRepo()
		repo.catalog.GetSubjectFn = nil

		service := newCatalogServiceForTest(repo)

		if err := service.AssignSubjectToDivision(ctx, request); !errors.Is(err, ErrSubjectNotFound) {
			t.Fatalf("Expected ErrSubjectNotFound, got %v", err)
		}
	})
}

func TestCatalogService_RegisterTeacher(t *testing.T) {
	ctx := context.Background()

	t.Run("registers teacher against directory user", func(t *testing.T) {
		repo := newMockRepository()
		repo.withUserRole("user-7", models.RoleTeacher)
		repo.catalog.GetSchoolFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error) {
			return &models.School{ID: id}, nil
		}
		repo.teacher.CreateFn = func(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
			teacher.ID = 7
			return nil
		}

		service := newCatalogServiceForTest(repo)

		teacher, err := service.RegisterTeacher(ctx, &RegisterTeacherRequest{UserID: "user-7", SchoolID: 1})
		if err != nil {
			t.Fatalf("RegisterTeacher failed: %v", err)
		}
		if teacher.ID != 7 || teacher.UserID != "user-7" || teacher.SchoolID != 1 {
			t.Errorf("Unexpected teacher: %+v", teacher)
		}
	})

	t.Run("unknown directory user is rejected", func(t *testing.T) {
		service := newCatalogServiceForTest(newMockRepository())

		_, err := service.RegisterTeacher(ctx, &RegisterTeacherRequest{UserID: "ghost", SchoolID: 1})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestCatalogService_AssignStudentToDivision(t *testing.T) {
	ctx := context.Background()

	setupRepo := func() *mockRepository {
		repo := newMockRepository()
		repo.student.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
			return &models.Student{ID: id}, nil
		}
		repo.catalog.GetDivisionFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
			return &models.Division{ID: id}, nil
		}
		return repo
	}

	t.Run("marks the new division as current", func(t *testing.T) {
		repo := setupRepo()
		var assigned *models.StudentDivision
		repo.student.AssignDivisionFn = func(ctx context.Context, tx *gorm.DB, rel *models.StudentDivision) error {
			assigned = rel
			return nil
		}

		service := newCatalogServiceForTest(repo)

		err := service.AssignStudentToDivision(ctx, &AssignStudentDivisionRequest{StudentID: 55, DivisionID: 10})
		if err != nil {
			t.Fatalf("AssignStudentToDivision failed: %v", err)
		}
		if assigned == nil || !assigned.IsCurrent {
			t.Errorf("Expected current division assignment, got %+v", assigned)
		}
	})

	t.Run("unknown student is rejected", func(t *testing.T) {
		repo := setupRepo()
		repo.student.GetByIDFn = nil

		service := newCatalogServiceForTest(repo)

		err := service.AssignStudentToDivision(ctx, &AssignStudentDivisionRequest{StudentID: 55, DivisionID: 10})
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("Expected ErrStudentNotFound, got %v", err)
		}
	})
}

func TestCatalogService_AssignTeacherSubject(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.teacher.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
		return &models.Teacher{ID: id}, nil
	}
	repo.catalog.GetDivisionFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
		return &models.Division{ID: id}, nil
	}
	repo.catalog.GetSubjectFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
		return &models.Subject{ID: id}, nil
	}

	var assigned *models.TeacherDivisionSubject
	repo.teacher.AssignSubjectFn = func(ctx context.Context, tx *gorm.DB, rel *models.TeacherDivisionSubject) error {
		assigned = rel
		return nil
	}

	service := newCatalogServiceForTest(repo)

	err := service.AssignTeacherSubject(ctx, &AssignTeacherSubjectRequest{TeacherID: 7, DivisionID: 10, SubjectID: 3})
	if err != nil {
		t.Fatalf("AssignTeacherSubject failed: %v", err)
	}
	if assigned == nil || assigned.TeacherID != 7 || assigned.DivisionID != 10 || assigned.SubjectID != 3 {
		t.Errorf("Unexpected assignment: %+v", assigned)
	}
}
