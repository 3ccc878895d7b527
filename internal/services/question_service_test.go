package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

func newQuestionServiceForTest(repo *mockRepository) *questionService {
	return &questionService{
		repo:      repo,
		logger:    testLogger(),
		validator: validator.NewValidator(),
	}
}

func setupQuestionRepo() *mockRepository {
	repo := newMockRepository()
	repo.catalog.GetSchoolFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error) {
		return &models.School{ID: id}, nil
	}
	repo.catalog.GetDivisionFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
		return &models.Division{ID: id}, nil
	}
	repo.catalog.GetSubjectFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
		return &models.Subject{ID: id}, nil
	}
	return repo
}

func questionCreateRequest() *CreateQuestionRequest {
	return &CreateQuestionRequest{
		Title:      "Solve for x",
		Body:       "2x + 3 = 9",
		SubjectID:  3,
		DivisionID: 10,
		SchoolID:   1,
	}
}

func TestQuestionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("state defaults to draft", func(t *testing.T) {
		repo := setupQuestionRepo()

		var created *models.Question
		repo.question.CreateFn = func(ctx context.Context, tx *gorm.DB, question *models.Question) error {
			question.ID = 21
			created = question
			return nil
		}

		service := newQuestionServiceForTest(repo)

		resp, err := service.Create(ctx, questionCreateRequest(), "teacher-1")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.State != models.QuestionDraft {
			t.Errorf("Expected draft state, got %s", created.State)
		}
		if resp.State != models.QuestionDraft {
			t.Errorf("Expected draft state in response, got %s", resp.State)
		}
		if resp.CreatedBy != "teacher-1" {
			t.Errorf("Expected created_by teacher-1, got %s", resp.CreatedBy)
		}
	})

	t.Run("explicit state is kept", func(t *testing.T) {
		repo := setupQuestionRepo()

		var created *models.Question
		repo.question.CreateFn = func(ctx context.Context, tx *gorm.DB, question *models.Question) error {
			created = question
			return nil
		}

		service := newQuestionServiceForTest(repo)

		req := questionCreateRequest()
		req.State = models.QuestionActive
		if _, err := service.Create(ctx, req, "teacher-1"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.State != models.QuestionActive {
			t.Errorf("Expected active state, got %s", created.State)
		}
	})

	t.Run("duplicate title for the same author and scope is rejected", func(t *testing.T) {
		repo := setupQuestionRepo()
		repo.question.ExistsByTitleFn = func(ctx context.Context, tx *gorm.DB, title, authorID string, subjectID, divisionID, schoolID uint, excludeID *uint) (bool, error) {
			return true, nil
		}

		service := newQuestionServiceForTest(repo)

		_, err := service.Create(ctx, questionCreateRequest(), "teacher-1")
		if !errors.Is(err, ErrDuplicateQuestion) {
			t.Fatalf("Expected ErrDuplicateQuestion, got %v", err)
		}
	})

	t.Run("objective question without choices fails validation", func(t *testing.T) {
		service := newQuestionServiceForTest(setupQuestionRepo())

		req := questionCreateRequest()
		req.IsObjective = true

		_, err := service.Create(ctx, req, "teacher-1")
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected ValidationErrors, got %v", err)
		}
	})

	t.Run("objective question with choices and answer passes", func(t *testing.T) {
		repo := setupQuestionRepo()
		repo.question.CreateFn = func(ctx context.Context, tx *gorm.DB, question *models.Question) error {
			question.ID = 22
			return nil
		}

		service := newQuestionServiceForTest(repo)

		req := questionCreateRequest()
		req.IsObjective = true
		req.ChoiceBody = datatypes.JSON(`["1","2","3","4"]`)
		req.Answer = strPtr("3")

		if _, err := service.Create(ctx, req, "teacher-1"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	})
}

func TestQuestionService_GetByID_AnswerVisibility(t *testing.T) {
	ctx := context.Background()

	setupRepo := func() *mockRepository {
		repo := newMockRepository()
		repo.question.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
			return &models.Question{
				ID:             id,
				Title:          "Solve for x",
				UserID:         "teacher-1",
				Answer:         strPtr("3"),
				BaselineAnswer: strPtr("x = 3"),
			}, nil
		}
		return repo
	}

	t.Run("author sees answers", func(t *testing.T) {
		service := newQuestionServiceForTest(setupRepo())

		resp, err := service.GetByID(ctx, 21, "teacher-1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if resp.Answer == nil || resp.BaselineAnswer == nil {
			t.Error("Author should see answer and baseline answer")
		}
	})

	t.Run("another teacher does not see answers", func(t *testing.T) {
		repo := setupRepo()
		repo.withUserRole("teacher-2", models.RoleTeacher)

		service := newQuestionServiceForTest(repo)

		resp, err := service.GetByID(ctx, 21, "teacher-2")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if resp.Answer != nil || resp.BaselineAnswer != nil {
			t.Error("Non-author should not see answers")
		}
	})

	t.Run("admin sees answers", func(t *testing.T) {
		repo := setupRepo()
		repo.withUserRole("admin-1", models.RoleAdmin)

		service := newQuestionServiceForTest(repo)

		resp, err := service.GetByID(ctx, 21, "admin-1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if resp.Answer == nil {
			t.Error("Admin should see answers")
		}
	})
}

func TestQuestionService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("non-author cannot update", func(t *testing.T) {
		repo := newMockRepository()
		repo.question.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: "teacher-1"}, nil
		}

		service := newQuestionServiceForTest(repo)

		_, err := service.Update(ctx, 21, &UpdateQuestionRequest{Body: strPtr("updated")}, "teacher-2")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
	})

	t.Run("title change re-checks uniqueness", func(t *testing.T) {
		repo := newMockRepository()
		repo.question.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
			return &models.Question{ID: id, Title: "Old title", UserID: "teacher-1"}, nil
		}

		var checkedExclude *uint
		repo.question.ExistsByTitleFn = func(ctx context.Context, tx *gorm.DB, title, authorID string, subjectID, divisionID, schoolID uint, excludeID *uint) (bool, error) {
			checkedExclude = excludeID
			return true, nil
		}

		service := newQuestionServiceForTest(repo)

		_, err := service.Update(ctx, 21, &UpdateQuestionRequest{Title: strPtr("New title")}, "teacher-1")
		if !errors.Is(err, ErrDuplicateQuestion) {
			t.Fatalf("Expected ErrDuplicateQuestion, got %v", err)
		}
		if checkedExclude == nil || *checkedExclude != 21 {
			t.Errorf("Uniqueness check should exclude the question itself, got %v", checkedExclude)
		}
	})

	t.Run("state transition to edited", func(t *testing.T) {
		repo := newMockRepository()
		repo.question.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
			return &models.Question{ID: id, Title: "Solve for x", State: models.QuestionActive, UserID: "teacher-1"}, nil
		}

		var updated *models.Question
		repo.question.UpdateFn = func(ctx context.Context, tx *gorm.DB, question *models.Question) error {
			updated = question
			return nil
		}

		service := newQuestionServiceForTest(repo)

		edited := models.QuestionEdited
		if _, err := service.Update(ctx, 21, &UpdateQuestionRequest{State: &edited}, "teacher-1"); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.State != models.QuestionEdited {
			t.Errorf("Expected edited state, got %s", updated.State)
		}
	})
}

func TestQuestionService_List_ScopesToAuthor(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.withUserRole("teacher-1", models.RoleTeacher)

	var appliedFilters repositories.QuestionFilters
	repo.question.ListFn = func(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
		appliedFilters = filters
		return nil, 0, nil
	}

	service := newQuestionServiceForTest(repo)

	if _, err := service.List(ctx, repositories.QuestionFilters{Limit: 10}, "teacher-1"); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if appliedFilters.AuthorID == nil || *appliedFilters.AuthorID != "teacher-1" {
		t.Errorf("Non-admin list should be scoped to the caller, got %v", appliedFilters.AuthorID)
	}
}
