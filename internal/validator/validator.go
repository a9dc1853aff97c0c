package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

// ValidationErrors aggregates field failures for one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return strings.Join(messages, "; ")
}

// Validator wraps go-playground/validator with the governance rules
// registered.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	registerGovernanceRules(v)
	return &Validator{validate: v}
}

// Validate checks the struct tags on req and converts failures into
// ValidationErrors.
func (v *Validator) Validate(req interface{}) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := make(ValidationErrors, 0, len(invalid))
	for _, fieldErr := range invalid {
		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: messageFor(fieldErr),
			Value:   fieldErr.Value(),
			Rule:    fieldErr.Tag(),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "proposal_title":
		return "must be between 1 and 100 characters"
	case "proposal_content":
		return "must be between 1 and 2500 characters"
	case "project_reference":
		return "must be exactly 46 characters"
	case "catalog_name":
		return "must be between 1 and 500 characters"
	case "subject_course":
		return "is not a valid course"
	default:
		return fmt.Sprintf("failed on rule %s", fe.Tag())
	}
}

func registerGovernanceRules(v *validator.Validate) {
	// Length limits come from the on-record storage layout and are not
	// configurable.
	_ = v.RegisterValidation("proposal_title", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return len(s) >= 1 && len(s) <= 100
	})

	_ = v.RegisterValidation("proposal_content", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return len(s) >= 1 && len(s) <= 2500
	})

	_ = v.RegisterValidation("project_reference", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) == 46
	})

	_ = v.RegisterValidation("catalog_name", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return len(s) >= 1 && len(s) <= 500
	})

	_ = v.RegisterValidation("subject_course", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "not_defined", "first", "second", "third", "fourth",
			"fifth", "sixth", "seventh", "eighth", "ninth":
			return true
		}
		return false
	})
}
