package validator

import "errors"

// Common validation errors that can be used across the application.
var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownRuleKind is returned by Evaluate for a FieldRule whose kind is not recognised.
	ErrUnknownRuleKind = errors.New("unknown rule kind")

	// ErrInvalidRule is returned when a FieldRule is missing a required parameter.
	ErrInvalidRule = errors.New("invalid rule configuration")
)
