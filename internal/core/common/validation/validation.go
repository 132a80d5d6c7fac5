package validation

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/procureops/procurement-portal/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
	errors []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
		errors: make([]errors.ValidationError, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case time.Time:
			if v.IsZero() {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// OneOf restricts a string field to a fixed set of values. Empty strings are
// left to Required.
func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return errors.NewValidationFieldError(fv.FieldName,
			fmt.Sprintf("%s must be one of: %s", fv.FieldName, strings.Join(allowed, ", ")),
			errors.ErrCodeValidationFailed)
	})
	return fv
}

func (fv *FieldValidator) MaxLen(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok && len(s) > max {
			return errors.NewValidationFieldError(fv.FieldName,
				fmt.Sprintf("%s must be at most %d characters", fv.FieldName, max),
				errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLen(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok && s != "" && len(s) < min {
			return errors.NewValidationFieldError(fv.FieldName,
				fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min),
				errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		at := strings.Index(s, "@")
		if at < 1 || at == len(s)-1 || !strings.Contains(s[at+1:], ".") {
			return errors.NewValidationFieldError(fv.FieldName,
				fmt.Sprintf("%s must be a valid email address", fv.FieldName),
				errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Validate runs all field validators and returns an aggregated AppError, or
// nil when everything passes.
func (v *ValidationBuilder) Validate() *errors.AppError {
	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if appErr := validator(field.Value); appErr != nil {
				if details, ok := appErr.Details.(errors.ValidationErrors); ok {
					v.errors = append(v.errors, details.Errors...)
				}
			}
		}
	}

	if len(v.errors) > 0 {
		return errors.NewValidationErrors(v.errors)
	}
	return nil
}

// AddError appends a validation error produced outside the builder flow.
func (v *ValidationBuilder) AddError(field, message string, code errors.ErrorCode) {
	v.errors = append(v.errors, errors.ValidationError{
		Field:   field,
		Message: message,
		Code:    string(code),
	})
}
