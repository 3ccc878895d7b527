package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type scheduleService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewScheduleService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ScheduleService {
	return &scheduleService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE OPERATIONS =====

func (s *scheduleService) Create(ctx context.Context, req *CreateScheduleRequest, creatorID string) (*ScheduleResponse, error) {
	s.logger.Info("Creating class schedule", "creator_id", creatorID, "teacher_id", req.TeacherID, "date", req.Date)

	// Validate request with business rules
	if errors := s.validator.GetBusinessValidator().ValidateScheduleCreate(req); len(errors) > 0 {
		return nil, errors
	}

	// FK preconditions fail before any mutation
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
	if _, err := s.repo.Teacher().GetByID(ctx, nil, req.TeacherID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}

	// Assignment preconditions
	teaches, err := s.repo.Teacher().TeachesSubjectInDivision(ctx, nil, req.TeacherID, req.DivisionID, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check teaching assignment: %w", err)
	}
	if !teaches {
		return nil, ErrTeacherNotAssigned
	}

	assigned, err := s.repo.Catalog().SubjectAssignedToDivision(ctx, nil, req.DivisionID, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check division subject: %w", err)
	}
	if !assigned {
		return nil, ErrSubjectNotInDivision
	}

	schedule := &models.ClassSchedule{
		Period:     req.Period,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		SubjectID:  req.SubjectID,
		DivisionID: req.DivisionID,
		TeacherID:  req.TeacherID,
	}

	// The overlap check and insert share one transaction; HasOverlap takes
	// the teacher row lock, so concurrent creates for the same teacher
	// serialize rather than both counting zero overlaps.
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		conflict, err := txRepo.Schedule().HasOverlap(ctx, nil, req.TeacherID, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			return fmt.Errorf("failed to check schedule overlap: %w", err)
		}
		if conflict {
			return ErrScheduleConflict
		}

		if err := txRepo.Schedule().Create(ctx, nil, schedule); err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Class schedule created", "schedule_id", schedule.ID)

	return s.GetByID(ctx, schedule.ID)
}

func (s *scheduleService) GetByID(ctx context.Context, id uint) (*ScheduleResponse, error) {
	schedule, err := s.repo.Schedule().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return s.buildScheduleResponse(schedule), nil
}

func (s *scheduleService) Delete(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting class schedule", "schedule_id", id, "user_id", userID)

	if _, err := s.repo.Schedule().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("failed to get schedule: %w", err)
	}

	if err := s.repo.Schedule().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	s.logger.Info("Class schedule deleted", "schedule_id", id)
	return nil
}

// ===== LIST OPERATIONS =====

func (s *scheduleService) List(ctx context.Context, filters repositories.ScheduleFilters) (*ScheduleListResponse, error) {
	schedules, total, err := s.repo.Schedule().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	return s.buildScheduleListResponse(schedules, total, filters), nil
}

func (s *scheduleService) GetByTeacher(ctx context.Context, teacherID uint, filters repositories.ScheduleFilters) (*ScheduleListResponse, error) {
	schedules, total, err := s.repo.Schedule().GetByTeacher(ctx, nil, teacherID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules by teacher: %w", err)
	}

	return s.buildScheduleListResponse(schedules, total, filters), nil
}

func (s *scheduleService) GetByDivision(ctx context.Context, divisionID uint, filters repositories.ScheduleFilters) (*ScheduleListResponse, error) {
	schedules, total, err := s.repo.Schedule().GetByDivision(ctx, nil, divisionID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules by division: %w", err)
	}

	return s.buildScheduleListResponse(schedules, total, filters), nil
}

// ===== CURRENT CLASS =====

func (s *scheduleService) CurrentClassForTeacher(ctx context.Context, teacherID uint, at time.Time) (*ScheduleResponse, error) {
	schedule, err := s.repo.Schedule().GetActiveAtForTeacher(ctx, nil, teacherID, dateOf(at), at)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get current class: %w", err)
	}

	return s.buildScheduleResponse(schedule), nil
}

func (s *scheduleService) CurrentClassForStudent(ctx context.Context, studentUserID string, at time.Time) (*ScheduleResponse, error) {
	student, err := s.repo.Student().GetByUserID(ctx, nil, studentUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	placement, err := s.repo.Student().GetCurrentDivision(ctx, nil, student.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get current division: %w", err)
	}

	schedule, err := s.repo.Schedule().GetActiveAtForDivision(ctx, nil, placement.DivisionID, dateOf(at), at)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get current class: %w", err)
	}

	return s.buildScheduleResponse(schedule), nil
}

// ===== TOPIC TAGGING =====

func (s *scheduleService) SetClassTopic(ctx context.Context, req *TopicTagRequest, userID string) (*TopicTagResponse, error) {
	s.logger.Info("Tagging class topic", "schedule_id", req.ClassScheduleID, "topic_id", req.SubjectTopicID, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	schedule, err := s.repo.Schedule().GetByID(ctx, nil, req.ClassScheduleID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	topic, err := s.repo.Catalog().GetSubjectTopic(ctx, nil, req.SubjectTopicID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get subject topic: %w", err)
	}

	// The topic must belong to the subject the class teaches
	if topic.SubjectID != schedule.SubjectID {
		return nil, ErrTopicSubjectMismatch
	}

	// Non-admin callers may only tag their own classes
	role, err := getUserRole(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin {
		teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, NewPermissionError(userID, req.ClassScheduleID, "class_schedule", "tag", "caller is not a teacher")
			}
			return nil, fmt.Errorf("failed to get teacher: %w", err)
		}
		if teacher.ID != schedule.TeacherID {
			return nil, NewPermissionError(userID, req.ClassScheduleID, "class_schedule", "tag", "schedule belongs to another teacher")
		}
	}

	tagged, err := s.repo.Schedule().IsTopicTagged(ctx, nil, req.ClassScheduleID, req.SubjectTopicID)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic tag: %w", err)
	}
	if tagged {
		return nil, ErrDuplicateTopicTag
	}

	rel := &models.ClassDetailsRel{
		ClassScheduleID: req.ClassScheduleID,
		SubjectTopicID:  req.SubjectTopicID,
	}

	if err := s.repo.Schedule().CreateTopicTag(ctx, nil, rel); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateTopicTag
		}
		return nil, fmt.Errorf("failed to create topic tag: %w", err)
	}

	s.logger.Info("Class topic tagged", "tag_id", rel.ID)

	detailed, err := s.repo.Schedule().GetTopicTagWithDetails(ctx, nil, rel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic tag details: %w", err)
	}

	return s.buildTopicTagResponse(detailed), nil
}

func (s *scheduleService) GetClassTopics(ctx context.Context, scheduleID uint) ([]*TopicTagResponse, error) {
	if _, err := s.repo.Schedule().GetByID(ctx, nil, scheduleID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	tags, err := s.repo.Schedule().GetTopicTagsBySchedule(ctx, nil, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic tags: %w", err)
	}

	responses := make([]*TopicTagResponse, len(tags))
	for i, tag := range tags {
		responses[i] = s.buildTopicTagResponse(tag)
	}
	return responses, nil
}

// ===== RESPONSE BUILDERS =====

func (s *scheduleService) buildScheduleResponse(schedule *models.ClassSchedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:           schedule.ID,
		Period:       schedule.Period,
		Date:         schedule.Date,
		StartTime:    schedule.StartTime,
		EndTime:      schedule.EndTime,
		SubjectID:    schedule.SubjectID,
		SubjectName:  schedule.Subject.Name,
		DivisionID:   schedule.DivisionID,
		DivisionName: schedule.Division.Name(),
		TeacherID:    schedule.TeacherID,
		TeacherName:  schedule.Teacher.User.FullName(),
		CreatedAt:    schedule.CreatedAt,
	}
}

func (s *scheduleService) buildScheduleListResponse(schedules []*models.ClassSchedule, total int64, filters repositories.ScheduleFilters) *ScheduleListResponse {
	response := &ScheduleListResponse{
		Schedules: make([]*ScheduleResponse, len(schedules)),
		Total:     total,
		Page:      pageFor(filters.Limit, filters.Offset),
		Size:      filters.Limit,
	}
	for i, schedule := range schedules {
		response.Schedules[i] = s.buildScheduleResponse(schedule)
	}
	return response
}

func (s *scheduleService) buildTopicTagResponse(tag *models.ClassDetailsRel) *TopicTagResponse {
	return &TopicTagResponse{
		ID:              tag.ID,
		ClassScheduleID: tag.ClassScheduleID,
		SubjectTopicID:  tag.SubjectTopicID,
		Topic:           tag.SubjectTopic.Topic,
		SubTopic:        tag.SubjectTopic.SubTopic,
		SubjectName:     tag.SubjectTopic.Subject.Name,
		BoardName:       tag.SubjectTopic.Board.Name,
		GradeName:       tag.SubjectTopic.Grade.Name,
		TeacherName:     tag.ClassSchedule.Teacher.User.FullName(),
		DivisionName:    tag.ClassSchedule.Division.Name(),
		ScheduleDate:    tag.ClassSchedule.Date,
		Period:          tag.ClassSchedule.Period,
	}
}

// dateOf truncates an instant to its calendar date.
func dateOf(at time.Time) time.Time {
	year, month, day := at.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, at.Location())
}
