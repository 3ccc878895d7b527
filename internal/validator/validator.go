package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation failures that satisfies error
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// ToValidationErrors converts validator.ValidationErrors into our error type
func ToValidationErrors(err error) ValidationErrors {
	var result ValidationErrors

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{
			Field:   "request",
			Message: err.Error(),
			Rule:    "struct",
		}}
	}

	for _, fieldError := range validationErrors {
		result = append(result, ValidationError{
			Field:   strings.ToLower(fieldError.Field()),
			Message: messageForTag(fieldError),
			Value:   fieldError.Value(),
			Rule:    fieldError.Tag(),
		})
	}

	return result
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Validator wraps struct validation and business rule validation
type Validator struct {
	businessValidator *BusinessValidator
}

// NewValidator creates a validator with all custom rules registered
func NewValidator() *Validator {
	return &Validator{
		businessValidator: NewBusinessValidator(),
	}
}

// Validate validates struct tags and returns ValidationErrors on failure.
// Custom rule tags are registered on the underlying validator, so any DTO
// can go through here.
func (v *Validator) Validate(s interface{}) error {
	if errors := v.businessValidator.Validate(s); len(errors) > 0 {
		return errors
	}
	return nil
}

// GetBusinessValidator returns the business rule validator
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.businessValidator
}
