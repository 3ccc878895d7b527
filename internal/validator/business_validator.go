package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

var academicYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateScheduleCreate validates class schedule creation business rules
func (bv *BusinessValidator) ValidateScheduleCreate(req *ScheduleCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !req.StartTime.IsZero() && !req.EndTime.IsZero() && !req.EndTime.After(req.StartTime) {
		errors = append(errors, ValidationError{
			Field:   "end_time",
			Message: "must be after start_time",
			Value:   req.EndTime,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateQuestionCreate validates question creation business rules
func (bv *BusinessValidator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// Objective questions carry their choices and answer inline
	if req.IsObjective {
		if len(req.ChoiceBody) == 0 {
			errors = append(errors, ValidationError{
				Field:   "choice_body",
				Message: "is required for objective questions",
				Rule:    "business_logic",
			})
		}
		if req.Answer == nil || strings.TrimSpace(*req.Answer) == "" {
			errors = append(errors, ValidationError{
				Field:   "answer",
				Message: "is required for objective questions",
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateQuizCreate validates quiz creation business rules
func (bv *BusinessValidator) ValidateQuizCreate(req *QuizCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	return errors
}

// ValidateQuizUpdate validates partial quiz updates
func (bv *BusinessValidator) ValidateQuizUpdate(req *QuizUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateTaskCreate validates teacher task creation business rules
func (bv *BusinessValidator) ValidateTaskCreate(req *TaskCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must not be before start_date",
			Value:   req.EndDate,
			Rule:    "business_logic",
		})
	}

	// Quiz-backed task types need a quiz payload to create the quiz alongside
	if req.TaskType.QuizBacked() && req.Quiz != nil {
		errors = append(errors, bv.Validate(req.Quiz)...)
	}

	return errors
}

// ValidatePublishRequest validates quiz publication requests
func (bv *BusinessValidator) ValidatePublishRequest(req *PublishQuizRequest) ValidationErrors {
	return bv.Validate(req)
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-255 characters)
	bv.validate.RegisterValidation("question_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 255
	})

	bv.validate.RegisterValidation("quiz_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 255
	})

	// Quiz duration in minutes (1-600)
	bv.validate.RegisterValidation("quiz_duration", func(fl validator.FieldLevel) bool {
		duration := fl.Field().Int()
		return duration >= 1 && duration <= 600
	})

	// Question state validation
	bv.validate.RegisterValidation("question_state", func(fl validator.FieldLevel) bool {
		state := models.QuestionState(fl.Field().String())
		switch state {
		case models.QuestionActive, models.QuestionDraft, models.QuestionEdited:
			return true
		}
		return false
	})

	// Quiz type validation
	bv.validate.RegisterValidation("quiz_type", func(fl validator.FieldLevel) bool {
		qType := models.QuizType(fl.Field().String())
		switch qType {
		case models.QuizTypeQuiz, models.QuizTypeAssignment, models.QuizTypeSlipTest:
			return true
		}
		return false
	})

	// Task type validation
	bv.validate.RegisterValidation("task_type", func(fl validator.FieldLevel) bool {
		tType := models.TaskType(fl.Field().String())
		switch tType {
		case models.TaskClasswork, models.TaskHomework, models.TaskQuiz,
			models.TaskAssignment, models.TaskReadingMaterial,
			models.TaskAICheck, models.TaskSlipTest:
			return true
		}
		return false
	})

	// Academic year like "2025-2026"
	bv.validate.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return academicYearPattern.MatchString(fl.Field().String())
	})

	// Date must not be in the past (date-only granularity)
	bv.validate.RegisterValidation("not_past_date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		today := time.Now().Truncate(24 * time.Hour)
		return !value.Before(today)
	})
}
