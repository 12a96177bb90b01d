package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			// Values are not echoed, the config carries secrets
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s",
				e.Namespace(),
				e.Tag(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	if err := v.Validate(cfg); err != nil {
		return err
	}

	seed := cfg.Auth.Seed
	if seed.Enabled && (seed.AdminEmail == "" || seed.AdminPassword == "" || seed.UserEmail == "" || seed.UserPassword == "") {
		return fmt.Errorf("auth.seed requires admin and user credentials when enabled")
	}
	return nil
}
