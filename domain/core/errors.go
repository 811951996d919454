package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors are fatal and returned before any pipeline state is created
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmptyDataset   = fmt.Errorf("%w: dataset has no rows", ErrInvalidInput)
	ErrNoColumns      = fmt.Errorf("%w: dataset has no columns", ErrInvalidInput)
	ErrUnreadableFile = fmt.Errorf("%w: file could not be parsed", ErrInvalidInput)
	ErrInvalidConfig  = fmt.Errorf("%w: processing config", ErrInvalidInput)
	ErrUnsupported    = fmt.Errorf("%w: unsupported format", ErrInvalidInput)

	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrVersionNotFound = fmt.Errorf("%w: version", ErrNotFound)
	ErrUploadNotFound  = fmt.Errorf("%w: upload", ErrNotFound)

	// Query errors are scoped to the query engine
	ErrQuery          = errors.New("query error")
	ErrQuerySyntax    = fmt.Errorf("%w: syntax", ErrQuery)
	ErrQueryForbidden = fmt.Errorf("%w: forbidden", ErrQuery)

	// Versioning assertions; these indicate a bug, not bad input
	ErrDuplicateVersion    = errors.New("duplicate version id")
	ErrInconsistentVersion = errors.New("version summary inconsistent with dataset")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewVersionNotFoundError(id VersionID) error {
	return fmt.Errorf("%w: %s", ErrVersionNotFound, id)
}

func NewInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, reason)
}

func NewQuerySyntaxError(err error) error {
	return fmt.Errorf("%w: %v", ErrQuerySyntax, err)
}

func NewQueryForbiddenError(reason string) error {
	return fmt.Errorf("%w: %s", ErrQueryForbidden, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsQueryError(err error) bool {
	return errors.Is(err, ErrQuery)
}

func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrQueryForbidden)
}

func IsVersioningError(err error) bool {
	return errors.Is(err, ErrDuplicateVersion) ||
		errors.Is(err, ErrInconsistentVersion)
}
