package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the place domain. A place in another community is
// reported as ErrPlaceNotFound, never as a permission failure, so that the
// existence of other tenants' data is not confirmed.
var (
	ErrPlaceNotFound             = errors.New("place not found")
	ErrCommunityNotFound         = errors.New("community not found")
	ErrCulturalProtocolViolation = errors.New("cultural protocol violation")
	ErrInsufficientPermissions   = errors.New("insufficient permissions")
)

// ValidationError reports a malformed field, coordinate, URL, or query range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DatabaseError is an infrastructure fault surfaced to callers with the
// driver detail redacted. The storage layer logs the original error before
// wrapping; Error deliberately exposes only the operation name.
type DatabaseError struct {
	Op  string
	err error
}

// NewDatabaseError wraps a driver error for the named operation.
func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, err: err}
}

func (e *DatabaseError) Error() string {
	return "database error during " + e.Op
}

// IsDatabase reports whether err is a DatabaseError.
func IsDatabase(err error) bool {
	var de *DatabaseError
	return errors.As(err, &de)
}
