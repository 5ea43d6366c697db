package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	upkeeperrors "github.com/Iron-Ham/upkeep/internal/errors"
	"github.com/Iron-Ham/upkeep/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "mirror.max_age_hours")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Is makes every ValidationErrors match errors.ErrInvalidConfig.
func (e ValidationErrors) Is(target error) bool {
	return target == upkeeperrors.ErrInvalidConfig
}

// ValidLogLevels returns the logging package's levels in lowercase.
func ValidLogLevels() []string {
	levels := logging.ValidLevels()
	for i, l := range levels {
		levels[i] = strings.ToLower(l)
	}
	return levels
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateMirror()...)
	errors = append(errors, c.validateCommands()...)
	errors = append(errors, c.validateTasks()...)
	errors = append(errors, c.validateUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateMirror() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Mirror.ListPath) == "" {
		errors = append(errors, ValidationError{
			Field:   "mirror.list_path",
			Value:   c.Mirror.ListPath,
			Message: "must not be empty",
		})
	}
	if c.Mirror.MaxAgeHours <= 0 {
		errors = append(errors, ValidationError{
			Field:   "mirror.max_age_hours",
			Value:   c.Mirror.MaxAgeHours,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateCommands() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Commands.AURHelper) == "" {
		errors = append(errors, ValidationError{
			Field:   "commands.aur_helper",
			Value:   c.Commands.AURHelper,
			Message: "must not be empty",
		})
	}
	if strings.TrimSpace(c.Commands.ContainerRuntime) == "" {
		errors = append(errors, ValidationError{
			Field:   "commands.container_runtime",
			Value:   c.Commands.ContainerRuntime,
			Message: "must not be empty",
		})
	}
	if strings.ContainsAny(c.Commands.Sudo, " \t") {
		errors = append(errors, ValidationError{
			Field:   "commands.sudo",
			Value:   c.Commands.Sudo,
			Message: "must be a single program name without arguments",
		})
	}
	if c.Commands.TimeoutMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "commands.timeout_minutes",
			Value:   c.Commands.TimeoutMinutes,
			Message: "must be non-negative (0 disables the timeout)",
		})
	}

	return errors
}

func (c *Config) validateTasks() []ValidationError {
	var errors []ValidationError

	for i, pattern := range c.Tasks.Skip {
		field := fmt.Sprintf("tasks.skip[%d]", i)
		if strings.TrimSpace(pattern) == "" {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   pattern,
				Message: "must not be empty",
			})
			continue
		}
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   pattern,
				Message: fmt.Sprintf("is not a valid glob pattern: %v", err),
			})
		}
	}

	return errors
}

func (c *Config) validateUI() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidProgressModes(), c.UI.Progress) {
		errors = append(errors, ValidationError{
			Field:   "ui.progress",
			Value:   c.UI.Progress,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProgressModes(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative (0 disables rotation)",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
