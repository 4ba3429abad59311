// Package validator provides struct validation utilities with custom validators.
package validator

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom validations.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return sb.String()
}

// New creates a new Validator with custom validators registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("scan_year", validateScanYear)
	_ = v.RegisterValidation("scan_month", validateScanMonth)
	_ = v.RegisterValidation("week_index", validateWeekIndex)
	_ = v.RegisterValidation("severity_level", validateSeverityLevel)
	_ = v.RegisterValidation("department", validateDepartment)

	return &Validator{validate: v}
}

// Validate validates a struct and returns ValidationErrors if validation fails.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return err
	}

	result := make(ValidationErrors, 0, len(validationErrors))
	for _, e := range validationErrors {
		result = append(result, ValidationError{
			Field:   toSnakeCase(e.Field()),
			Message: formatErrorMessage(e),
		})
	}

	return result
}

// validateScanYear validates a report year.
func validateScanYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= 2000 && year <= 2100
}

// validateScanMonth validates a calendar month.
func validateScanMonth(fl validator.FieldLevel) bool {
	month := fl.Field().Int()
	return month >= 1 && month <= 12
}

// validateWeekIndex validates a week-of-month index. Zero passes so
// that 'omitempty' semantics hold for series without a week.
func validateWeekIndex(fl validator.FieldLevel) bool {
	week := fl.Field().Int()
	if week == 0 {
		return true
	}
	return week >= 1 && week <= 6
}

// validateSeverityLevel validates a numeric severity in the 0..5 range.
func validateSeverityLevel(fl validator.FieldLevel) bool {
	sev := fl.Field().Int()
	return sev >= 0 && sev <= 5
}

// validateDepartment rejects blank-only department names.
func validateDepartment(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return strings.TrimSpace(value) != ""
}

// formatErrorMessage converts validation errors to human-readable messages.
func formatErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "scan_year":
		return "must be between 2000 and 2100"
	case "scan_month":
		return "must be between 1 and 12"
	case "week_index":
		return "must be between 1 and 6"
	case "severity_level":
		return "must be between 0 and 5"
	case "department":
		return "must not be blank"
	default:
		return fmt.Sprintf("failed on '%s' validation", e.Tag())
	}
}

// toSnakeCase converts PascalCase/camelCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
