package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

var structValidator = newStructValidator()

// newStructValidator reports fields by their yaml key so messages match the file
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	if err := structValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate struct: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Value:   fe.Value(),
				Message: tagMessage(fe),
			})
		}
	}

	// GitHub.Owner must not be empty or "auto" after detection
	if cfg.GitHub.Owner == "" || cfg.GitHub.Owner == "auto" {
		errs = append(errs, &ValidationError{
			Field:   "github.owner",
			Value:   cfg.GitHub.Owner,
			Message: "must be set or auto-detectable",
		})
	}

	// GitHub.Repo must not be empty or "auto" after detection
	if cfg.GitHub.Repo == "" || cfg.GitHub.Repo == "auto" {
		errs = append(errs, &ValidationError{
			Field:   "github.repo",
			Value:   cfg.GitHub.Repo,
			Message: "must be set or auto-detectable",
		})
	}

	// Thresholds must parse and be strictly increasing
	if t, err := cfg.SeverityThresholds(); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "thresholds",
			Value:   cfg.Thresholds,
			Message: err.Error(),
		})
	} else if err := t.Validate(); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "thresholds",
			Value:   cfg.Thresholds,
			Message: err.Error(),
		})
	}

	// Backends that post somewhere need somewhere to post
	for _, backend := range cfg.Escalation.Backends {
		switch {
		case backend == "slack" && cfg.Escalation.SlackWebhook == "":
			errs = append(errs, &ValidationError{
				Field:   "escalation.slack_webhook",
				Value:   "",
				Message: "required by the slack backend",
			})
		case backend == "webhook" && cfg.Escalation.WebhookURL == "":
			errs = append(errs, &ValidationError{
				Field:   "escalation.webhook_url",
				Value:   "",
				Message: "required by the webhook backend",
			})
		}
	}

	if cfg.Store.Backend == "sqlite" && cfg.Store.Path == "" {
		errs = append(errs, &ValidationError{
			Field:   "store.path",
			Value:   cfg.Store.Path,
			Message: "required by the sqlite backend",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// fieldPath drops the root type from a validator namespace:
// "Config.escalation.backends[0]" becomes "escalation.backends[0]".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "required":
		return "must not be empty"
	case "url":
		return "must be a valid URL"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
