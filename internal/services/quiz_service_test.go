package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

func newQuizServiceForTest(repo *mockRepository, publisher events.EventPublisher) *quizService {
	return &quizService{
		repo:           repo,
		logger:         testLogger(),
		validator:      validator.NewValidator(),
		eventPublisher: publisher,
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestQuizService_AddQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers continue above the current max and linked questions are skipped", func(t *testing.T) {
		repo := newMockRepository()
		repo.quiz.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
			return &models.Quiz{ID: id, UserID: "teacher-1"}, nil
		}
		repo.question.GetByIDsFn = func(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error) {
			questions := make([]*models.Question, len(ids))
			for i, id := range ids {
				questions[i] = &models.Question{ID: id}
			}
			return questions, nil
		}
		repo.quiz.GetLinkedQuestionIDsFn = func(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error) {
			return []uint{2}, nil
		}
		repo.quiz.MaxQuestionNumberFn = func(ctx context.Context, tx *gorm.DB, quizID uint) (int, error) {
			return 4, nil
		}

		var captured []*models.QuizQuestion
		repo.quiz.AddQuestionLinksFn = func(ctx context.Context, tx *gorm.DB, links []*models.QuizQuestion) error {
			captured = links
			return nil
		}

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		result, err := service.AddQuestions(ctx, 5, &AddQuestionsRequest{QuestionIDs: []uint{1, 2, 3}}, "teacher-1")
		if err != nil {
			t.Fatalf("AddQuestions failed: %v", err)
		}

		if len(result.Added) != 2 || result.Added[0] != 1 || result.Added[1] != 3 {
			t.Errorf("Expected added [1 3], got %v", result.Added)
		}
		if len(result.Skipped) != 1 || result.Skipped[0] != 2 {
			t.Errorf("Expected skipped [2], got %v", result.Skipped)
		}

		if len(captured) != 2 {
			t.Fatalf("Expected 2 links, got %d", len(captured))
		}
		if captured[0].QuestionNumber != 5 || captured[1].QuestionNumber != 6 {
			t.Errorf("Expected question numbers 5 and 6, got %d and %d",
				captured[0].QuestionNumber, captured[1].QuestionNumber)
		}
		if captured[0].AddedBy != "teacher-1" {
			t.Errorf("Expected added_by teacher-1, got %s", captured[0].AddedBy)
		}
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		repo := newMockRepository()
		repo.quiz.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
			return &models.Quiz{ID: id, UserID: "teacher-1"}, nil
		}

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		_, err := service.AddQuestions(ctx, 5, &AddQuestionsRequest{QuestionIDs: []uint{1}}, "teacher-2")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
	})

	t.Run("missing question fails the whole request", func(t *testing.T) {
		repo := newMockRepository()
		repo.quiz.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
			return &models.Quiz{ID: id, UserID: "teacher-1"}, nil
		}
		repo.question.GetByIDsFn = func(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error) {
			return []*models.Question{{ID: 1}}, nil
		}

		linked := false
		repo.quiz.AddQuestionLinksFn = func(ctx context.Context, tx *gorm.DB, links []*models.QuizQuestion) error {
			linked = true
			return nil
		}

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		_, err := service.AddQuestions(ctx, 5, &AddQuestionsRequest{QuestionIDs: []uint{1, 99}}, "teacher-1")
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Fatalf("Expected ErrQuestionNotFound, got %v", err)
		}
		if linked {
			t.Error("No links should be created when a question is missing")
		}
	})
}

func TestQuizService_Publish(t *testing.T) {
	ctx := context.Background()

	startDate := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	setupRepo := func() *mockRepository {
		repo := newMockRepository()
		repo.catalog.GetDivisionWithDetailsFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Division, error) {
			return &models.Division{
				ID:       10,
				SchoolID: 1,
				Grade:    models.Grade{ID: 6, Name: "Grade 6"},
				Section:  models.Section{ID: 2, Name: "B"},
				School:   models.School{ID: 1, Name: "Springfield High"},
			}, nil
		}
		repo.quiz.GetByIDWithDetailsFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
			return &models.Quiz{
				ID:         5,
				Title:      "Algebra Checkpoint",
				StartDate:  startDate,
				Duration:   30,
				TotalMarks: intPtr(20),
				UserID:     "teacher-1",
				Subject:    models.Subject{ID: 3, Name: "Mathematics"},
			}, nil
		}
		repo.quiz.GetActiveQuestionsFn = func(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.Question, error) {
			return []*models.Question{
				{
					ID:             21,
					Title:          "Solve for x",
					Body:           "2x + 3 = 9",
					IsObjective:    true,
					ChoiceBody:     datatypes.JSON(`["1","2","3","4"]`),
					Answer:         strPtr("3"),
					BaselineAnswer: strPtr("x = 3"),
				},
				{
					ID:             35,
					Title:          "Explain slope",
					Body:           "What does the slope of a line represent?",
					BaselineAnswer: strPtr("rate of change"),
				},
			}, nil
		}
		repo.publishedQuiz.CreateFn = func(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error {
			published.ID = 77
			return nil
		}
		repo.student.GetCurrentByDivisionFn = func(ctx context.Context, tx *gorm.DB, divisionID uint) ([]*models.StudentDivision, error) {
			return []*models.StudentDivision{
				{StudentID: 101, DivisionID: divisionID, IsCurrent: true},
				{StudentID: 102, DivisionID: divisionID, IsCurrent: true},
			}, nil
		}
		return repo
	}

	t.Run("snapshot, fan-out and event", func(t *testing.T) {
		repo := setupRepo()

		var capturedSnapshot *models.PublishedQuiz
		repo.publishedQuiz.CreateFn = func(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error {
			published.ID = 77
			capturedSnapshot = published
			return nil
		}

		var capturedResponses []*models.StudentQuizResponseRel
		repo.publishedQuiz.CreateResponsesFn = func(ctx context.Context, tx *gorm.DB, responses []*models.StudentQuizResponseRel) error {
			capturedResponses = responses
			return nil
		}

		publisher := events.NewMockEventPublisher(testLogger())
		service := newQuizServiceForTest(repo, publisher)

		resp, err := service.Publish(ctx, &PublishQuizRequest{
			QuizID:     5,
			DivisionID: 10,
			QuizType:   models.QuizTypeQuiz,
		}, "teacher-1")
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		if resp.PublishedQuizID != 77 {
			t.Errorf("Expected published quiz id 77, got %d", resp.PublishedQuizID)
		}
		if resp.QuestionCount != 2 || resp.StudentsAssigned != 2 {
			t.Errorf("Expected 2 questions and 2 students, got %d and %d",
				resp.QuestionCount, resp.StudentsAssigned)
		}
		if resp.TaskID != nil {
			t.Errorf("Expected no task linkage, got %v", *resp.TaskID)
		}

		// The stored snapshot renumbers questions from 1 and carries the
		// grading baseline
		var detail models.QuizDetail
		if err := json.Unmarshal(capturedSnapshot.QuizDetail, &detail); err != nil {
			t.Fatalf("Failed to unmarshal snapshot: %v", err)
		}
		if detail.SchoolName != "Springfield High" || detail.DivisionName != "Grade 6 B" || detail.SubjectName != "Mathematics" {
			t.Errorf("Unexpected snapshot names: %q %q %q",
				detail.SchoolName, detail.DivisionName, detail.SubjectName)
		}
		if len(detail.Questions) != 2 {
			t.Fatalf("Expected 2 snapshot questions, got %d", len(detail.Questions))
		}
		if detail.Questions[0].QuestionNumber != 1 || detail.Questions[1].QuestionNumber != 2 {
			t.Errorf("Expected questions renumbered 1 and 2, got %d and %d",
				detail.Questions[0].QuestionNumber, detail.Questions[1].QuestionNumber)
		}
		if detail.Questions[0].BaselineAnswer == nil || *detail.Questions[0].BaselineAnswer != "x = 3" {
			t.Error("Snapshot should carry the baseline answer")
		}

		if len(capturedResponses) != 2 {
			t.Fatalf("Expected 2 fan-out rows, got %d", len(capturedResponses))
		}
		for _, r := range capturedResponses {
			if string(r.Response) != "{}" {
				t.Errorf("Expected empty response placeholder, got %s", r.Response)
			}
			if r.Status != models.ResponseActive {
				t.Errorf("Expected response status active, got %s", r.Status)
			}
			if r.QuizRelID != 77 {
				t.Errorf("Expected quiz rel id 77, got %d", r.QuizRelID)
			}
		}
		if capturedResponses[0].StudentID != 101 || capturedResponses[1].StudentID != 102 {
			t.Errorf("Unexpected student ids: %d, %d",
				capturedResponses[0].StudentID, capturedResponses[1].StudentID)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventQuizPublished {
			t.Errorf("Expected event type %s, got %s", events.EventQuizPublished, published[0].Type)
		}
		data, ok := published[0].Data.(events.QuizPublishedEvent)
		if !ok {
			t.Fatalf("Unexpected event payload type %T", published[0].Data)
		}
		if data.PublishedQuizID != 77 || data.StudentCount != 2 || data.PublishedBy != "teacher-1" {
			t.Errorf("Unexpected event payload: %+v", data)
		}
	})

	t.Run("republish to the same division is rejected", func(t *testing.T) {
		repo := setupRepo()
		repo.publishedQuiz.ExistsFn = func(ctx context.Context, tx *gorm.DB, quizID, divisionID, schoolID uint, quizType models.QuizType) (bool, error) {
			return true, nil
		}

		created := false
		repo.publishedQuiz.CreateFn = func(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error {
			created = true
			return nil
		}

		publisher := events.NewMockEventPublisher(testLogger())
		service := newQuizServiceForTest(repo, publisher)

		_, err := service.Publish(ctx, &PublishQuizRequest{
			QuizID:     5,
			DivisionID: 10,
			QuizType:   models.QuizTypeQuiz,
		}, "teacher-1")
		if !errors.Is(err, ErrAlreadyPublished) {
			t.Fatalf("Expected ErrAlreadyPublished, got %v", err)
		}
		if created {
			t.Error("No snapshot should be created for a duplicate publish")
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("No event should be emitted for a rejected publish")
		}
	})

	t.Run("duplicate key from the unique index maps to already published", func(t *testing.T) {
		repo := setupRepo()
		repo.publishedQuiz.CreateFn = func(ctx context.Context, tx *gorm.DB, published *models.PublishedQuiz) error {
			return gorm.ErrDuplicatedKey
		}

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		_, err := service.Publish(ctx, &PublishQuizRequest{
			QuizID:     5,
			DivisionID: 10,
			QuizType:   models.QuizTypeQuiz,
		}, "teacher-1")
		if !errors.Is(err, ErrAlreadyPublished) {
			t.Fatalf("Expected ErrAlreadyPublished, got %v", err)
		}
	})

	t.Run("task linkage", func(t *testing.T) {
		repo := setupRepo()
		repo.task.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.TeacherTask, error) {
			return &models.TeacherTask{ID: id}, nil
		}

		var linkedTaskID, linkedPublishedID uint
		repo.task.SetPublishedQuizFn = func(ctx context.Context, tx *gorm.DB, taskID, publishedQuizID uint) error {
			linkedTaskID = taskID
			linkedPublishedID = publishedQuizID
			return nil
		}

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		resp, err := service.Publish(ctx, &PublishQuizRequest{
			QuizID:     5,
			DivisionID: 10,
			QuizType:   models.QuizTypeQuiz,
			TaskID:     9,
		}, "teacher-1")
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		if resp.TaskID == nil || *resp.TaskID != 9 {
			t.Fatalf("Expected task id 9 in response, got %v", resp.TaskID)
		}
		if linkedTaskID != 9 || linkedPublishedID != 77 {
			t.Errorf("Expected link (9, 77), got (%d, %d)", linkedTaskID, linkedPublishedID)
		}
	})

	t.Run("empty division still publishes", func(t *testing.T) {
		repo := setupRepo()
		repo.student.GetCurrentByDivisionFn = func(ctx context.Context, tx *gorm.DB, divisionID uint) ([]*models.StudentDivision, error) {
			return nil, nil
		}

		fannedOut := false
		repo.publishedQuiz.CreateResponsesFn = func(ctx context.Context, tx *gorm.DB, responses []*models.StudentQuizResponseRel) error {
			fannedOut = true
			return nil
		}

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		resp, err := service.Publish(ctx, &PublishQuizRequest{
			QuizID:     5,
			DivisionID: 10,
			QuizType:   models.QuizTypeQuiz,
		}, "teacher-1")
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
		if resp.StudentsAssigned != 0 {
			t.Errorf("Expected 0 students assigned, got %d", resp.StudentsAssigned)
		}
		if fannedOut {
			t.Error("No fan-out rows expected for an empty division")
		}
	})
}

func TestQuizService_GetQuizQuestionsByState(t *testing.T) {
	ctx := context.Background()

	buckets := &repositories.QuestionBuckets{
		Active: []*models.Question{
			{ID: 1, State: models.QuestionActive, Answer: strPtr("a")},
			{ID: 2, State: models.QuestionActive},
		},
		Draft:  []*models.Question{{ID: 3, State: models.QuestionDraft}},
		Edited: []*models.Question{{ID: 4, State: models.QuestionEdited}},
	}

	setupRepo := func() *mockRepository {
		repo := newMockRepository()
		repo.quiz.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
			return &models.Quiz{ID: id, UserID: "teacher-1"}, nil
		}
		repo.quiz.GetQuestionsByStateFn = func(ctx context.Context, tx *gorm.DB, quizID uint) (*repositories.QuestionBuckets, error) {
			return buckets, nil
		}
		return repo
	}

	t.Run("drafts are omitted by default but counted", func(t *testing.T) {
		service := newQuizServiceForTest(setupRepo(), events.NewMockEventPublisher(testLogger()))

		resp, err := service.GetQuizQuestionsByState(ctx, 5, "teacher-1", false)
		if err != nil {
			t.Fatalf("GetQuizQuestionsByState failed: %v", err)
		}

		if len(resp.Active) != 2 || len(resp.Edited) != 1 {
			t.Errorf("Expected 2 active and 1 edited, got %d and %d", len(resp.Active), len(resp.Edited))
		}
		if resp.Draft != nil {
			t.Errorf("Drafts should be omitted, got %d", len(resp.Draft))
		}
		want := QuestionStateSummary{Active: 2, Draft: 1, Edited: 1, Total: 4}
		if resp.Summary != want {
			t.Errorf("Expected summary %+v, got %+v", want, resp.Summary)
		}

		// The authoring view keeps answers visible to the owner
		if resp.Active[0].Answer == nil || *resp.Active[0].Answer != "a" {
			t.Error("Owner should see answers in the authoring view")
		}
	})

	t.Run("include_drafts returns the draft bucket", func(t *testing.T) {
		service := newQuizServiceForTest(setupRepo(), events.NewMockEventPublisher(testLogger()))

		resp, err := service.GetQuizQuestionsByState(ctx, 5, "teacher-1", true)
		if err != nil {
			t.Fatalf("GetQuizQuestionsByState failed: %v", err)
		}
		if len(resp.Draft) != 1 || resp.Draft[0].ID != 3 {
			t.Errorf("Expected draft bucket with question 3, got %+v", resp.Draft)
		}
	})

	t.Run("non-owner non-admin is rejected", func(t *testing.T) {
		repo := setupRepo()
		repo.withUserRole("teacher-2", models.RoleTeacher)

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		_, err := service.GetQuizQuestionsByState(ctx, 5, "teacher-2", false)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
	})

	t.Run("admin may read any quiz's states", func(t *testing.T) {
		repo := setupRepo()
		repo.withUserRole("admin-1", models.RoleAdmin)

		service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

		if _, err := service.GetQuizQuestionsByState(ctx, 5, "admin-1", false); err != nil {
			t.Fatalf("Admin read failed: %v", err)
		}
	})
}

func TestQuizService_GetQuizQuestions_HidesAnswers(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.quiz.GetByIDFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
		return &models.Quiz{ID: id, UserID: "teacher-1"}, nil
	}
	repo.quiz.GetActiveQuestionsFn = func(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.Question, error) {
		return []*models.Question{
			{ID: 1, Title: "Q1", Answer: strPtr("42"), BaselineAnswer: strPtr("forty-two")},
		}, nil
	}

	service := newQuizServiceForTest(repo, events.NewMockEventPublisher(testLogger()))

	questions, err := service.GetQuizQuestions(ctx, 5)
	if err != nil {
		t.Fatalf("GetQuizQuestions failed: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(questions))
	}
	if questions[0].Answer != nil || questions[0].BaselineAnswer != nil {
		t.Error("Student-facing read must not expose answers")
	}
}
