package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, creatorID string) (*QuestionResponse, error) {
	s.logger.Info("Creating question", "creator_id", creatorID, "subject_id", req.SubjectID)

	// Validate request with business rules
	if errors := s.validator.GetBusinessValidator().ValidateQuestionCreate(req); len(errors) > 0 {
		return nil, errors
	}

	// FK preconditions fail before any mutation
	if _, err := s.repo.Catalog().GetSchool(ctx, nil, req.SchoolID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	if _, err := s.repo.Catalog().GetDivision(ctx, nil, req.DivisionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division: %w", err)
	}
	if _, err := s.repo.Catalog().GetSubject(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	// Friendly duplicate check ahead of the unique index
	exists, err := s.repo.Question().ExistsByTitle(ctx, nil, req.Title, creatorID, req.SubjectID, req.DivisionID, req.SchoolID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check question title: %w", err)
	}
	if exists {
		return nil, ErrDuplicateQuestion
	}

	state := req.State
	if state == "" {
		state = models.QuestionDraft
	}

	question := &models.Question{
		Title:          req.Title,
		Body:           req.Body,
		IsObjective:    req.IsObjective,
		State:          state,
		ChoiceBody:     req.ChoiceBody,
		Answer:         req.Answer,
		BaselineAnswer: req.BaselineAnswer,
		Topic:          req.Topic,
		SubTopic:       req.SubTopic,
		UserID:         creatorID,
		SubjectID:      req.SubjectID,
		DivisionID:     req.DivisionID,
		SchoolID:       req.SchoolID,
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateQuestion
		}
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID)

	return buildQuestionResponse(question, true), nil
}

func (s *questionService) GetByID(ctx context.Context, id uint, userID string) (*QuestionResponse, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	includeAnswers, err := s.canSeeAnswers(ctx, question, userID)
	if err != nil {
		return nil, err
	}

	return buildQuestionResponse(question, includeAnswers), nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*QuestionResponse, error) {
	s.logger.Info("Updating question", "question_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if question.UserID != userID {
		return nil, NewPermissionError(userID, id, "question", "update", "not the question author")
	}

	// Title changes re-check uniqueness against the author's other questions
	if req.Title != nil && *req.Title != question.Title {
		exists, err := s.repo.Question().ExistsByTitle(ctx, nil, *req.Title, userID, question.SubjectID, question.DivisionID, question.SchoolID, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check question title: %w", err)
		}
		if exists {
			return nil, ErrDuplicateQuestion
		}
		question.Title = *req.Title
	}

	if req.Body != nil {
		question.Body = *req.Body
	}
	if req.IsObjective != nil {
		question.IsObjective = *req.IsObjective
	}
	if req.State != nil {
		question.State = *req.State
	}
	if req.ChoiceBody != nil {
		question.ChoiceBody = req.ChoiceBody
	}
	if req.Answer != nil {
		question.Answer = req.Answer
	}
	if req.BaselineAnswer != nil {
		question.BaselineAnswer = req.BaselineAnswer
	}
	if req.Topic != nil {
		question.Topic = req.Topic
	}
	if req.SubTopic != nil {
		question.SubTopic = req.SubTopic
	}

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateQuestion
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.logger.Info("Question updated", "question_id", id)

	return buildQuestionResponse(question, true), nil
}

func (s *questionService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting question", "question_id", id, "user_id", userID)

	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	if question.UserID != userID {
		role, err := getUserRole(ctx, s.repo, userID)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return NewPermissionError(userID, id, "question", "delete", "not the question author")
		}
	}

	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("Question deleted", "question_id", id)
	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters, userID string) (*QuestionListResponse, error) {
	// Non-admin callers only see their own questions
	role, err := getUserRole(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin {
		filters.AuthorID = &userID
	}

	questions, total, err := s.repo.Question().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	return s.buildListResponse(questions, total, filters, userID), nil
}

func (s *questionService) GetByAuthor(ctx context.Context, authorID string, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	questions, total, err := s.repo.Question().GetByAuthor(ctx, nil, authorID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions by author: %w", err)
	}

	return s.buildListResponse(questions, total, filters, authorID), nil
}

func (s *questionService) Search(ctx context.Context, query string, filters repositories.QuestionFilters, userID string) (*QuestionListResponse, error) {
	role, err := getUserRole(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin {
		filters.AuthorID = &userID
	}

	questions, total, err := s.repo.Question().Search(ctx, nil, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}

	return s.buildListResponse(questions, total, filters, userID), nil
}

// ===== HELPERS =====

func (s *questionService) canSeeAnswers(ctx context.Context, question *models.Question, userID string) (bool, error) {
	if question.UserID == userID {
		return true, nil
	}
	role, err := getUserRole(ctx, s.repo, userID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

func (s *questionService) buildListResponse(questions []*models.Question, total int64, filters repositories.QuestionFilters, userID string) *QuestionListResponse {
	response := &QuestionListResponse{
		Questions: make([]*QuestionResponse, len(questions)),
		Total:     total,
		Page:      pageFor(filters.Limit, filters.Offset),
		Size:      filters.Limit,
	}
	for i, question := range questions {
		response.Questions[i] = buildQuestionResponse(question, question.UserID == userID)
	}
	return response
}
