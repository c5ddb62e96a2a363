package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ssargent/scryptd/pkg/logging"
)

// ConfigValidator validates configuration values.
type ConfigValidator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements ConfigValidator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a ConfigValidator that reports fields by their
// config file names.
func NewValidator() ConfigValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &validatorImpl{validate: validate}
}

// Validate runs the struct tag rules, then the rules that span fields.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	var errs []error
	if err := v.validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("validation error: %w", err)
		}
		for _, e := range validationErrs {
			errs = append(errs, errors.New(formatValidationError(e)))
		}
	}

	if cfg.MaxWorkers > 0 && cfg.MinWorkers > cfg.MaxWorkers {
		errs = append(errs, fmt.Errorf("minWorkers (%d) exceeds maxWorkers (%d)", cfg.MinWorkers, cfg.MaxWorkers))
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// formatValidationError formats a single validation error with field path and details.
func formatValidationError(e validator.FieldError) string {
	fieldPath := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "ne":
		return fmt.Sprintf("%s must not be %s, use -1 for auto", fieldPath, e.Param())
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", fieldPath, strings.ToLower(e.Param()[:1])+e.Param()[1:])
	case "url":
		return fmt.Sprintf("%s must be a valid URL (got: %v)", fieldPath, e.Value())
	case "ip|hostname_rfc1123":
		return fmt.Sprintf("%s must be an IP address or host name (got: %v)", fieldPath, e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s' (got: %v)", fieldPath, e.Tag(), e.Value())
	}
}

// formatFieldPath drops the root struct name: "Config.client.endpoint" -> "client.endpoint"
func formatFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}
