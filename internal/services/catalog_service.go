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

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== SCHOOLS AND BOARDS =====

func (s *catalogService) CreateSchool(ctx context.Context, req *CreateSchoolRequest) (*models.School, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.BoardID != nil {
		if _, err := s.repo.Catalog().GetBoard(ctx, nil, *req.BoardID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrBoardNotFound
			}
			return nil, fmt.Errorf("failed to get board: %w", err)
		}
	}

	school := &models.School{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		BoardID: req.BoardID,
	}
	if err := s.repo.Catalog().CreateSchool(ctx, nil, school); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("failed to create school: %w", err)
	}

	s.logger.Info("School created", "school_id", school.ID, "name", school.Name)
	return school, nil
}

func (s *catalogService) ListSchools(ctx context.Context, limit, offset int) ([]*models.School, int64, error) {
	schools, total, err := s.repo.Catalog().ListSchools(ctx, nil, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, total, nil
}

func (s *catalogService) CreateBoard(ctx context.Context, req *CreateBoardRequest) (*models.Board, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	board := &models.Board{Name: req.Name}
	if err := s.repo.Catalog().CreateBoard(ctx, nil, board); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return board, nil
}

func (s *catalogService) ListBoards(ctx context.Context) ([]*models.Board, error) {
	boards, err := s.repo.Catalog().ListBoards(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// ===== GRADES, SECTIONS, SUBJECTS =====

func (s *catalogService) CreateGrade(ctx context.Context, req *CreateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	grade := &models.Grade{Name: req.Name}
	if err := s.repo.Catalog().CreateGrade(ctx, nil, grade); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("failed to create grade: %w", err)
	}
	return grade, nil
}

func (s *catalogService) ListGrades(ctx context.Context) ([]*models.Grade, error) {
	grades, err := s.repo.Catalog().ListGrades(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func (s *catalogService) CreateSection(ctx context.Context, req *CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	section := &models.Section{Name: req.Name}
	if err := s.repo.Catalog().CreateSection(ctx, nil, section); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return section, nil
}

func (s *catalogService) ListSections(ctx context.Context) ([]*models.Section, error) {
	sections, err := s.repo.Catalog().ListSections(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

func (s *catalogService) CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject := &models.Subject{Name: req.Name}
	if err := s.repo.Catalog().CreateSubject(ctx, nil, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return subject, nil
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.repo.Catalog().ListSubjects(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// ===== DIVISIONS =====

func (s *catalogService) CreateDivision(ctx context.Context, req *CreateDivisionRequest) (*models.Division, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Catalog().GetGrade(ctx, nil, req.GradeID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	if _, err := s.repo.Catalog().GetSection(ctx, nil, req.SectionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	if _, err := s.repo.Catalog().GetSchool(ctx, nil, req.SchoolID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}

	division := &models.Division{
		GradeID:      req.GradeID,
		SectionID:    req.SectionID,
		AcademicYear: req.AcademicYear,
		SchoolID:     req.SchoolID,
	}
	if err := s.repo.Catalog().CreateDivision(ctx, nil, division); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("failed to create division: %w", err)
	}

	s.logger.Info("Division created", "division_id", division.ID)
	return division, nil
}

func (s *catalogService) GetDivision(ctx context.Context, id uint) (*models.Division, error) {
	division, err := s.repo.Catalog().GetDivisionWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division: %w", err)
	}
	return division, nil
}

func (s *catalogService) ListDivisions(ctx context.Context, filters repositories.DivisionFilters) ([]*models.Division, int64, error) {
	divisions, total, err := s.repo.Catalog().ListDivisions(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list divisions: %w", err)
	}
	return divisions, total, nil
}

func (s *catalogService) AssignSubjectToDivision(ctx context.Context, req *DivisionSubjectRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	if _, err := s.repo.Catalog().GetDivision(ctx, nil, req.DivisionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDivisionNotFound
		}
		return fmt.Errorf("failed to get division: %w", err)
	}
	if _, err := s.repo.Catalog().GetSubject(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}

	assigned, err := s.repo.Catalog().SubjectAssignedToDivision(ctx, nil, req.DivisionID, req.SubjectID)
	if err != nil {
		return fmt.Errorf("failed to check division subject: %w", err)
	}
	if assigned {
		return ErrDuplicateAssignment
	}

	rel := &models.DivisionSubject{
		SchoolID:   req.SchoolID,
		DivisionID: req.DivisionID,
		SubjectID:  req.SubjectID,
	}
	if err := s.repo.Catalog().AssignSubjectToDivision(ctx, nil, rel); err != nil {
		if repositories.IsDuplicateError(err) {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("failed to assign subject: %w", err)
	}
	return nil
}

// ===== SUBJECT TOPICS =====

func (s *catalogService) CreateSubjectTopic(ctx context.Context, req *CreateSubjectTopicRequest) (*models.SubjectTopic, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Catalog().GetSubject(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if _, err := s.repo.Catalog().GetBoard(ctx, nil, req.BoardID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if _, err := s.repo.Catalog().GetGrade(ctx, nil, req.GradeID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}

	topic := &models.SubjectTopic{
		Topic:     req.Topic,
		SubTopic:  req.SubTopic,
		SubjectID: req.SubjectID,
		BoardID:   req.BoardID,
		GradeID:   req.GradeID,
	}
	if err := s.repo.Catalog().CreateSubjectTopic(ctx, nil, topic); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("failed to create subject topic: %w", err)
	}
	return topic, nil
}

func (s *catalogService) ListSubjectTopics(ctx context.Context, filters repositories.TopicFilters) ([]*models.SubjectTopic, int64, error) {
	topics, total, err := s.repo.Catalog().ListSubjectTopics(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subject topics: %w", err)
	}
	return topics, total, nil
}

// ===== PEOPLE =====

func (s *catalogService) RegisterTeacher(ctx context.Context, req *RegisterTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().GetByID(ctx, req.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if _, err := s.repo.Catalog().GetSchool(ctx, nil, req.SchoolID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}

	teacher := &models.Teacher{
		UserID:   req.UserID,
		SchoolID: req.SchoolID,
	}
	if err := s.repo.Teacher().Create(ctx, nil, teacher); err != nil {
		return nil, fmt.Errorf("failed to register teacher: %w", err)
	}

	s.logger.Info("Teacher registered", "teacher_id", teacher.ID, "user_id", req.UserID)
	return teacher, nil
}

func (s *catalogService) RegisterStudent(ctx context.Context, req *RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().GetByID(ctx, req.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if _, err := s.repo.Catalog().GetSchool(ctx, nil, req.SchoolID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}

	student := &models.Student{
		UserID:   req.UserID,
		SchoolID: req.SchoolID,
	}
	if err := s.repo.Student().Create(ctx, nil, student); err != nil {
		return nil, fmt.Errorf("failed to register student: %w", err)
	}

	s.logger.Info("Student registered", "student_id", student.ID, "user_id", req.UserID)
	return student, nil
}

func (s *catalogService) AssignStudentToDivision(ctx context.Context, req *AssignStudentDivisionRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	if _, err := s.repo.Student().GetByID(ctx, nil, req.StudentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to get student: %w", err)
	}
	if _, err := s.repo.Catalog().GetDivision(ctx, nil, req.DivisionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDivisionNotFound
		}
		return fmt.Errorf("failed to get division: %w", err)
	}

	rel := &models.StudentDivision{
		StudentID:  req.StudentID,
		DivisionID: req.DivisionID,
		IsCurrent:  true,
	}
	if err := s.repo.Student().AssignDivision(ctx, nil, rel); err != nil {
		if repositories.IsDuplicateError(err) {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("failed to assign division: %w", err)
	}

	s.logger.Info("Student assigned to division", "student_id", req.StudentID, "division_id", req.DivisionID)
	return nil
}

func (s *catalogService) AssignTeacherSubject(ctx context.Context, req *AssignTeacherSubjectRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	if _, err := s.repo.Teacher().GetByID(ctx, nil, req.TeacherID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTeacherNotFound
		}
		return fmt.Errorf("failed to get teacher: %w", err)
	}
	if _, err := s.repo.Catalog().GetDivision(ctx, nil, req.DivisionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDivisionNotFound
		}
		return fmt.Errorf("failed to get division: %w", err)
	}
	if _, err := s.repo.Catalog().GetSubject(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}

	rel := &models.TeacherDivisionSubject{
		TeacherID:  req.TeacherID,
		DivisionID: req.DivisionID,
		SubjectID:  req.SubjectID,
	}
	if err := s.repo.Teacher().AssignSubject(ctx, nil, rel); err != nil {
		if repositories.IsDuplicateError(err) {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("failed to assign subject: %w", err)
	}

	s.logger.Info("Teacher subject assigned", "teacher_id", req.TeacherID, "division_id", req.DivisionID, "subject_id", req.SubjectID)
	return nil
}
