// Package common defines shared constants and sentinel errors used across
// client and server layers of filevault. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Base error for caller-input problems. Specific causes wrap it so the
	// routing layer can match the whole family with one errors.Is check.
	ErrorValidation = errors.New("validation error")

	ErrMissingEmail    = fmt.Errorf("%w: missing email", ErrorValidation)
	ErrMissingPassword = fmt.Errorf("%w: missing password", ErrorValidation)
	ErrAlreadyExists   = fmt.Errorf("%w: already exist", ErrorValidation)

	ErrMissingName     = fmt.Errorf("%w: missing name", ErrorValidation)
	ErrMissingType     = fmt.Errorf("%w: missing type", ErrorValidation)
	ErrMissingData     = fmt.Errorf("%w: missing data", ErrorValidation)
	ErrParentNotFound  = fmt.Errorf("%w: parent not found", ErrorValidation)
	ErrParentNotFolder = fmt.Errorf("%w: parent is not a folder", ErrorValidation)
	ErrInvalidPayload  = fmt.Errorf("%w: data is not valid base64", ErrorValidation)

	// A folder carries no blob, so asking for its content is a caller error.
	ErrFolderHasNoContent = fmt.Errorf("%w: a folder doesn't have content", ErrorValidation)
)
