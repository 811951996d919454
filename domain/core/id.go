package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if the v7 clock read fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	VersionID ID
	UploadID  ID
)

// NewVersionID returns a fresh, time-ordered version identifier
func NewVersionID() VersionID { return VersionID(NewID()) }

// NewUploadID returns a fresh upload reference
func NewUploadID() UploadID { return UploadID(NewID()) }

// String conversions for domain IDs
func (id VersionID) String() string { return ID(id).String() }
func (id UploadID) String() string  { return ID(id).String() }

// ParseVersionID parses a string into VersionID
func ParseVersionID(s string) (VersionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: version ID cannot be empty", ErrInvalidInput)
	}
	return VersionID(strings.TrimSpace(s)), nil
}

// ParseUploadID parses a string into UploadID. Only uuid shaped refs are
// accepted so a ref can never be used as a path.
func ParseUploadID(s string) (UploadID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: upload reference cannot be empty", ErrInvalidInput)
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: malformed upload reference %q", ErrInvalidInput, s)
	}
	return UploadID(s), nil
}
