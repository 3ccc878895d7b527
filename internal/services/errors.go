package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

// Sentinel errors mapped to 404 by handlers
var (
	ErrScheduleNotFound      = errors.New("class schedule not found")
	ErrTopicNotFound         = errors.New("subject topic not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrQuizNotFound          = errors.New("quiz not found")
	ErrPublishedQuizNotFound = errors.New("published quiz not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrSchoolNotFound        = errors.New("school not found")
	ErrBoardNotFound         = errors.New("board not found")
	ErrGradeNotFound         = errors.New("grade not found")
	ErrSectionNotFound       = errors.New("section not found")
	ErrSubjectNotFound       = errors.New("subject not found")
	ErrDivisionNotFound      = errors.New("division not found")
	ErrTeacherNotFound       = errors.New("teacher not found")
	ErrStudentNotFound       = errors.New("student not found")
	ErrUserNotFound          = errors.New("user not found")
)

// Conflict and rule errors mapped to 400 by handlers
var (
	ErrScheduleConflict     = errors.New("teacher already has a class scheduled in this time slot")
	ErrTopicSubjectMismatch = errors.New("topic subject does not match schedule subject")
	ErrDuplicateTopicTag    = errors.New("topic already tagged for this class schedule")
	ErrDuplicateQuestion    = errors.New("a question with this title already exists for this subject and division")
	ErrAlreadyPublished     = errors.New("quiz already published for this division")
	ErrDuplicateTask        = errors.New("an identical task already exists")
	ErrTeacherNotAssigned   = errors.New("teacher is not assigned to this subject and division")
	ErrSubjectNotInDivision = errors.New("subject is not assigned to this division")
	ErrDuplicateAssignment  = errors.New("assignment already exists")
)

// ValidationErrors re-exports the validator error type so callers can match
// on it without importing two packages
type ValidationErrors = validator.ValidationErrors

// PermissionError indicates the caller may not perform an action on a resource
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// NewPermissionError creates a permission error
func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError indicates a domain rule rejected the operation
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// NewBusinessRuleError creates a business rule error
func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

// IsNotFound reports whether err is one of the not-found sentinels
func IsNotFound(err error) bool {
	for _, sentinel := range []error{
		ErrScheduleNotFound, ErrTopicNotFound, ErrQuestionNotFound,
		ErrQuizNotFound, ErrPublishedQuizNotFound, ErrTaskNotFound,
		ErrSchoolNotFound, ErrBoardNotFound, ErrGradeNotFound,
		ErrSectionNotFound, ErrSubjectNotFound, ErrDivisionNotFound,
		ErrTeacherNotFound, ErrStudentNotFound, ErrUserNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is one of the conflict sentinels
func IsConflict(err error) bool {
	for _, sentinel := range []error{
		ErrScheduleConflict, ErrTopicSubjectMismatch, ErrDuplicateTopicTag,
		ErrDuplicateQuestion, ErrAlreadyPublished, ErrDuplicateTask,
		ErrTeacherNotAssigned, ErrSubjectNotInDivision, ErrDuplicateAssignment,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
