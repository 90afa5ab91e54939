package service

import (
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
)

// ValidationError carries every issue found in one validation pass.
type ValidationError struct {
	Resource string
	Issues   validation.Errors
	Hint     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Resource, e.Issues.Error())
}

func newValidationError(resource string, issues validation.Errors, hint string) *ValidationError {
	return &ValidationError{Resource: resource, Issues: issues, Hint: hint}
}

func invalid(resource, field, code, msg, hint string) *ValidationError {
	return newValidationError(resource, validation.Errors{validation.Invalid(field, code, msg)}, hint)
}
