package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type quizService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) QuizService {
	return &quizService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// ===== CORE OPERATIONS =====

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, creatorID string) (*QuizResponse, error) {
	s.logger.Info("Creating quiz", "creator_id", creatorID, "title", req.Title)

	if errors := s.validator.GetBusinessValidator().ValidateQuizCreate(req); len(errors) > 0 {
		return nil, errors
	}

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

	quiz := &models.Quiz{
		Title:        req.Title,
		StartDate:    req.StartDate,
		Duration:     req.Duration,
		Topic:        req.Topic,
		SubTopic:     req.SubTopic,
		QuizType:     req.QuizType,
		IsPublic:     req.IsPublic,
		Instructions: req.Instructions,
		TotalMarks:   req.TotalMarks,
		UserID:       creatorID,
		SubjectID:    req.SubjectID,
		DivisionID:   req.DivisionID,
		SchoolID:     req.SchoolID,
	}

	if err := s.repo.Quiz().Create(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("Quiz created", "quiz_id", quiz.ID)

	return buildQuizResponse(quiz), nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (*QuizResponse, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return buildQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, id uint, req *UpdateQuizRequest, userID string) (*QuizResponse, error) {
	s.logger.Info("Updating quiz", "quiz_id", id, "user_id", userID)

	if errors := s.validator.GetBusinessValidator().ValidateQuizUpdate(req); len(errors) > 0 {
		return nil, errors
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if quiz.UserID != userID {
		return nil, NewPermissionError(userID, id, "quiz", "update", "not the quiz owner")
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.StartDate != nil {
		quiz.StartDate = *req.StartDate
	}
	if req.Duration != nil {
		quiz.Duration = *req.Duration
	}
	if req.Topic != nil {
		quiz.Topic = req.Topic
	}
	if req.SubTopic != nil {
		quiz.SubTopic = req.SubTopic
	}
	if req.QuizType != nil {
		quiz.QuizType = *req.QuizType
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
	}
	if req.Instructions != nil {
		quiz.Instructions = req.Instructions
	}
	if req.TotalMarks != nil {
		quiz.TotalMarks = req.TotalMarks
	}

	if err := s.repo.Quiz().Update(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	s.logger.Info("Quiz updated", "quiz_id", id)

	return buildQuizResponse(quiz), nil
}

func (s *quizService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting quiz", "quiz_id", id, "user_id", userID)

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}

	if quiz.UserID != userID {
		role, err := getUserRole(ctx, s.repo, userID)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return NewPermissionError(userID, id, "quiz", "delete", "not the quiz owner")
		}
	}

	if err := s.repo.Quiz().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.logger.Info("Quiz deleted", "quiz_id", id)
	return nil
}

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters, userID string) (*QuizListResponse, error) {
	role, err := getUserRole(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && filters.AuthorID == nil && (filters.IsPublic == nil || !*filters.IsPublic) {
		filters.AuthorID = &userID
	}

	quizzes, total, err := s.repo.Quiz().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	response := &QuizListResponse{
		Quizzes: make([]*QuizResponse, len(quizzes)),
		Total:   total,
		Page:    pageFor(filters.Limit, filters.Offset),
		Size:    filters.Limit,
	}
	for i, quiz := range quizzes {
		response.Quizzes[i] = buildQuizResponse(quiz)
	}
	return response, nil
}

// ===== QUESTION MANAGEMENT =====

func (s *quizService) AddQuestion(ctx context.Context, quizID, questionID uint, userID string) (*AddQuestionsResult, error) {
	return s.AddQuestions(ctx, quizID, &AddQuestionsRequest{QuestionIDs: []uint{questionID}}, userID)
}

func (s *quizService) AddQuestions(ctx context.Context, quizID uint, req *AddQuestionsRequest, userID string) (*AddQuestionsResult, error) {
	s.logger.Info("Adding questions to quiz", "quiz_id", quizID, "count", len(req.QuestionIDs), "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.UserID != userID {
		return nil, NewPermissionError(userID, quizID, "quiz", "add_questions", "not the quiz owner")
	}

	// Every requested question must exist before anything is linked
	questions, err := s.repo.Question().GetByIDs(ctx, nil, req.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	if len(questions) != len(uniqueIDs(req.QuestionIDs)) {
		return nil, ErrQuestionNotFound
	}

	result := &AddQuestionsResult{}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		linkedIDs, err := txRepo.Quiz().GetLinkedQuestionIDs(ctx, nil, quizID)
		if err != nil {
			return fmt.Errorf("failed to get linked questions: %w", err)
		}
		linked := make(map[uint]bool, len(linkedIDs))
		for _, id := range linkedIDs {
			linked[id] = true
		}

		number, err := txRepo.Quiz().MaxQuestionNumber(ctx, nil, quizID)
		if err != nil {
			return fmt.Errorf("failed to get max question number: %w", err)
		}

		var links []*models.QuizQuestion
		for _, questionID := range uniqueIDs(req.QuestionIDs) {
			// Already-linked questions are skipped, not an error
			if linked[questionID] {
				result.Skipped = append(result.Skipped, questionID)
				continue
			}
			number++
			links = append(links, &models.QuizQuestion{
				QuizID:         quizID,
				QuestionID:     questionID,
				QuestionNumber: number,
				AddedBy:        userID,
			})
			result.Added = append(result.Added, questionID)
		}

		if len(links) == 0 {
			return nil
		}
		if err := txRepo.Quiz().AddQuestionLinks(ctx, nil, links); err != nil {
			return fmt.Errorf("failed to link questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Questions added to quiz", "quiz_id", quizID, "added", len(result.Added), "skipped", len(result.Skipped))

	return result, nil
}

func (s *quizService) GetQuizQuestions(ctx context.Context, quizID uint) ([]*QuestionResponse, error) {
	if _, err := s.repo.Quiz().GetByID(ctx, nil, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	questions, err := s.repo.Quiz().GetActiveQuestions(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}

	// Student-facing read: answers and the grading baseline stay hidden
	responses := make([]*QuestionResponse, len(questions))
	for i, question := range questions {
		responses[i] = buildQuestionResponse(question, false)
	}
	return responses, nil
}

func (s *quizService) GetQuizQuestionsByState(ctx context.Context, quizID uint, userID string, includeDrafts bool) (*QuizQuestionsByStateResponse, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if quiz.UserID != userID {
		role, err := getUserRole(ctx, s.repo, userID)
		if err != nil {
			return nil, err
		}
		if role != models.RoleAdmin {
			return nil, NewPermissionError(userID, quizID, "quiz", "read_states", "not the quiz owner")
		}
	}

	buckets, err := s.repo.Quiz().GetQuestionsByState(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions by state: %w", err)
	}

	response := &QuizQuestionsByStateResponse{
		Active: toAuthoringResponses(buckets.Active),
		Edited: toAuthoringResponses(buckets.Edited),
		Summary: QuestionStateSummary{
			Active: len(buckets.Active),
			Draft:  len(buckets.Draft),
			Edited: len(buckets.Edited),
			Total:  buckets.Total(),
		},
	}
	if includeDrafts {
		response.Draft = toAuthoringResponses(buckets.Draft)
	}
	return response, nil
}

// ===== PUBLICATION =====

func (s *quizService) Publish(ctx context.Context, req *PublishQuizRequest, userID string) (*PublishResponse, error) {
	s.logger.Info("Publishing quiz", "quiz_id", req.QuizID, "division_id", req.DivisionID, "user_id", userID)

	if errors := s.validator.GetBusinessValidator().ValidatePublishRequest(req); len(errors) > 0 {
		return nil, errors
	}

	var (
		response *PublishResponse
		event    events.QuizPublishedEvent
	)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Resolve the division with its grade, section and school
		division, err := txRepo.Catalog().GetDivisionWithDetails(ctx, nil, req.DivisionID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrDivisionNotFound
			}
			return fmt.Errorf("failed to get division: %w", err)
		}
		if division.Grade.ID == 0 {
			return ErrGradeNotFound
		}
		if division.Section.ID == 0 {
			return ErrSectionNotFound
		}
		if division.School.ID == 0 {
			return ErrSchoolNotFound
		}

		// Resolve the quiz and its subject
		quiz, err := txRepo.Quiz().GetByIDWithDetails(ctx, nil, req.QuizID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("failed to get quiz: %w", err)
		}
		if quiz.Subject.ID == 0 {
			return ErrSubjectNotFound
		}

		// Friendly duplicate check; the unique index still backstops races
		published, err := txRepo.PublishedQuiz().Exists(ctx, nil, req.QuizID, req.DivisionID, division.SchoolID, req.QuizType)
		if err != nil {
			return fmt.Errorf("failed to check published quiz: %w", err)
		}
		if published {
			return ErrAlreadyPublished
		}

		// Snapshot active questions, renumbered from 1
		questions, err := txRepo.Quiz().GetActiveQuestions(ctx, nil, req.QuizID)
		if err != nil {
			return fmt.Errorf("failed to get active questions: %w", err)
		}

		snapshot := models.QuizDetail{
			QuizID:       quiz.ID,
			Title:        quiz.Title,
			Duration:     quiz.Duration,
			Topic:        quiz.Topic,
			SubTopic:     quiz.SubTopic,
			SchoolName:   division.School.Name,
			DivisionName: division.Name(),
			SubjectName:  quiz.Subject.Name,
			TotalMarks:   quiz.TotalMarks,
			Questions:    make([]models.PublishedQuestion, len(questions)),
		}
		for i, question := range questions {
			snapshot.Questions[i] = models.PublishedQuestion{
				QuestionNumber: i + 1,
				Title:          question.Title,
				Body:           question.Body,
				IsObjective:    question.IsObjective,
				ChoiceBody:     json.RawMessage(question.ChoiceBody),
				Answer:         question.Answer,
				BaselineAnswer: question.BaselineAnswer,
				Topic:          question.Topic,
				SubTopic:       question.SubTopic,
			}
		}

		detail, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal quiz snapshot: %w", err)
		}

		publishedQuiz := &models.PublishedQuiz{
			UserID:     userID,
			QuizDetail: detail,
			QuizType:   req.QuizType,
			StartTime:  quiz.StartDate,
			Duration:   quiz.Duration,
			Status:     models.PublishedStatusPublished,
			QuizID:     quiz.ID,
			DivisionID: division.ID,
			SchoolID:   division.SchoolID,
		}

		if err := txRepo.PublishedQuiz().Create(ctx, nil, publishedQuiz); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrAlreadyPublished
			}
			return fmt.Errorf("failed to create published quiz: %w", err)
		}

		// Optional task linkage
		var taskID *uint
		if req.TaskID != 0 {
			if _, err := txRepo.Task().GetByID(ctx, nil, req.TaskID); err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrTaskNotFound
				}
				return fmt.Errorf("failed to get task: %w", err)
			}
			if err := txRepo.Task().SetPublishedQuiz(ctx, nil, req.TaskID, publishedQuiz.ID); err != nil {
				return fmt.Errorf("failed to link task: %w", err)
			}
			id := req.TaskID
			taskID = &id
		}

		// Fan out one placeholder response per current placement
		placements, err := txRepo.Student().GetCurrentByDivision(ctx, nil, division.ID)
		if err != nil {
			return fmt.Errorf("failed to get division students: %w", err)
		}

		if len(placements) > 0 {
			responses := make([]*models.StudentQuizResponseRel, len(placements))
			for i, placement := range placements {
				responses[i] = &models.StudentQuizResponseRel{
					QuizDetail: detail,
					Response:   datatypes.JSON([]byte("{}")),
					Status:     models.ResponseActive,
					StudentID:  placement.StudentID,
					QuizRelID:  publishedQuiz.ID,
				}
			}
			if err := txRepo.PublishedQuiz().CreateResponses(ctx, nil, responses); err != nil {
				return fmt.Errorf("failed to create student responses: %w", err)
			}
		}

		response = &PublishResponse{
			PublishedQuizID:  publishedQuiz.ID,
			QuizID:           quiz.ID,
			QuizType:         req.QuizType,
			DivisionID:       division.ID,
			SchoolID:         division.SchoolID,
			QuestionCount:    len(questions),
			StudentsAssigned: len(placements),
			TaskID:           taskID,
		}
		event = events.QuizPublishedEvent{
			PublishedQuizID: publishedQuiz.ID,
			QuizID:          quiz.ID,
			QuizType:        req.QuizType,
			DivisionID:      division.ID,
			SchoolID:        division.SchoolID,
			StudentCount:    len(placements),
			PublishedBy:     userID,
			StartTime:       publishedQuiz.StartTime,
			Duration:        publishedQuiz.Duration,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Event emission stays outside the transaction; a broker failure must
	// not roll back a committed publish
	if err := s.eventPublisher.Publish(ctx, events.EventQuizPublished, event); err != nil {
		s.logger.Error("Failed to publish quiz event", "published_quiz_id", response.PublishedQuizID, "error", err)
	}

	s.logger.Info("Quiz published",
		"published_quiz_id", response.PublishedQuizID,
		"question_count", response.QuestionCount,
		"students_assigned", response.StudentsAssigned)

	return response, nil
}

func (s *quizService) GetPublishedByDivision(ctx context.Context, divisionID uint, limit, offset int) ([]*models.PublishedQuiz, int64, error) {
	if _, err := s.repo.Catalog().GetDivision(ctx, nil, divisionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, 0, ErrDivisionNotFound
		}
		return nil, 0, fmt.Errorf("failed to get division: %w", err)
	}

	published, total, err := s.repo.PublishedQuiz().GetByDivision(ctx, nil, divisionID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get published quizzes: %w", err)
	}
	return published, total, nil
}

// ===== HELPERS =====

func toAuthoringResponses(questions []*models.Question) []*QuestionResponse {
	responses := make([]*QuestionResponse, len(questions))
	for i, question := range questions {
		responses[i] = buildQuestionResponse(question, true)
	}
	return responses
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
