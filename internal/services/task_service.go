package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/events"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type taskService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewTaskService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) TaskService {
	return &taskService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *taskService) Create(ctx context.Context, req *CreateTaskRequest, creatorID string) (*TaskResponse, error) {
	s.logger.Info("Creating teacher task", "creator_id", creatorID, "task_type", req.TaskType, "title", req.Title)

	if errors := s.validator.GetBusinessValidator().ValidateTaskCreate(req); len(errors) > 0 {
		return nil, errors
	}

	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, creatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}

	if _, err := s.repo.Catalog().GetSubject(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if _, err := s.repo.Catalog().GetDivision(ctx, nil, req.DivisionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division: %w", err)
	}
	if req.ClassScheduleID != nil {
		if _, err := s.repo.Schedule().GetByID(ctx, nil, *req.ClassScheduleID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrScheduleNotFound
			}
			return nil, fmt.Errorf("failed to get schedule: %w", err)
		}
	}

	// A quiz is cascaded only when the payload is supplied; quiz-backed
	// types without one become bare tasks
	cascadeQuiz := req.TaskType.QuizBacked() && req.Quiz != nil
	if cascadeQuiz {
		if _, err := s.repo.Catalog().GetSchool(ctx, nil, req.SchoolID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrSchoolNotFound
			}
			return nil, fmt.Errorf("failed to get school: %w", err)
		}
	}

	task := &models.TeacherTask{
		Title:           req.Title,
		TaskType:        req.TaskType,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Instructions:    req.Instructions,
		Status:          models.TaskStatusActive,
		SubjectID:       req.SubjectID,
		TeacherID:       teacher.ID,
		DivisionID:      req.DivisionID,
		ClassScheduleID: req.ClassScheduleID,
	}

	// The task and its quiz commit or roll back together
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		duplicate, err := txRepo.Task().ExistsDuplicate(ctx, nil, task)
		if err != nil {
			return fmt.Errorf("failed to check task duplicate: %w", err)
		}
		if duplicate {
			return ErrDuplicateTask
		}

		if cascadeQuiz {
			quiz := &models.Quiz{
				Title:        req.Quiz.Title,
				StartDate:    req.Quiz.StartDate,
				Duration:     req.Quiz.Duration,
				Topic:        req.Quiz.Topic,
				SubTopic:     req.Quiz.SubTopic,
				QuizType:     quizTypeForTask(req.TaskType, req.Quiz.QuizType),
				IsPublic:     req.Quiz.IsPublic,
				Instructions: req.Instructions,
				TotalMarks:   totalMarksFromInstructions(req.Instructions),
				UserID:       creatorID,
				SubjectID:    req.SubjectID,
				DivisionID:   req.DivisionID,
				SchoolID:     req.SchoolID,
			}
			if err := txRepo.Quiz().Create(ctx, nil, quiz); err != nil {
				return fmt.Errorf("failed to create task quiz: %w", err)
			}
			task.QuizID = &quiz.ID
		}

		if err := txRepo.Task().Create(ctx, nil, task); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateTask
			}
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(ctx, events.EventTaskCreated, events.TaskCreatedEvent{
		TaskID:     task.ID,
		TaskType:   task.TaskType,
		Title:      task.Title,
		TeacherID:  task.TeacherID,
		SubjectID:  task.SubjectID,
		DivisionID: task.DivisionID,
		QuizID:     task.QuizID,
		CreatedBy:  creatorID,
	}); err != nil {
		s.logger.Error("Failed to publish task event", "task_id", task.ID, "error", err)
	}

	s.logger.Info("Teacher task created", "task_id", task.ID, "quiz_id", task.QuizID)

	return s.GetByID(ctx, task.ID)
}

func (s *taskService) GetByID(ctx context.Context, id uint) (*TaskResponse, error) {
	task, err := s.repo.Task().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return buildTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting task", "task_id", id, "user_id", userID)

	task, err := s.repo.Task().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to get task: %w", err)
	}

	role, err := getUserRole(ctx, s.repo, userID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewPermissionError(userID, id, "task", "delete", "caller is not a teacher")
			}
			return fmt.Errorf("failed to get teacher: %w", err)
		}
		if teacher.ID != task.TeacherID {
			return NewPermissionError(userID, id, "task", "delete", "task belongs to another teacher")
		}
	}

	if err := s.repo.Task().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("Task deleted", "task_id", id)
	return nil
}

func (s *taskService) List(ctx context.Context, filters repositories.TaskFilters) (*TaskListResponse, error) {
	tasks, total, err := s.repo.Task().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return s.buildTaskListResponse(tasks, total, filters), nil
}

func (s *taskService) GetByTeacher(ctx context.Context, teacherID uint, filters repositories.TaskFilters) (*TaskListResponse, error) {
	tasks, total, err := s.repo.Task().GetByTeacher(ctx, nil, teacherID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by teacher: %w", err)
	}

	return s.buildTaskListResponse(tasks, total, filters), nil
}

func (s *taskService) GetStats(ctx context.Context, teacherID uint) (*repositories.TeacherTaskStats, error) {
	if _, err := s.repo.Teacher().GetByID(ctx, nil, teacherID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}

	stats, err := s.repo.Task().GetTaskStats(ctx, nil, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task stats: %w", err)
	}
	return stats, nil
}

// ===== HELPERS =====

func (s *taskService) buildTaskListResponse(tasks []*models.TeacherTask, total int64, filters repositories.TaskFilters) *TaskListResponse {
	response := &TaskListResponse{
		Tasks: make([]*TaskResponse, len(tasks)),
		Total: total,
		Page:  pageFor(filters.Limit, filters.Offset),
		Size:  filters.Limit,
	}
	for i, task := range tasks {
		response.Tasks[i] = buildTaskResponse(task)
	}
	return response
}

func quizTypeForTask(taskType models.TaskType, requested models.QuizType) models.QuizType {
	if requested != "" {
		return requested
	}
	switch taskType {
	case models.TaskAssignment:
		return models.QuizTypeAssignment
	case models.TaskSlipTest:
		return models.QuizTypeSlipTest
	default:
		return models.QuizTypeQuiz
	}
}

// totalMarksFromInstructions lifts total_marks out of the instructions
// payload when the teacher supplied it there.
func totalMarksFromInstructions(instructions []byte) *int {
	if len(instructions) == 0 {
		return nil
	}
	var payload struct {
		TotalMarks *int `json:"total_marks"`
	}
	if err := json.Unmarshal(instructions, &payload); err != nil {
		return nil
	}
	return payload.TotalMarks
}
