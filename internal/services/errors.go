package services

import (
	"errors"
	"fmt"
	"strings"
)

// Authentication failures deliberately carry generic messages so a caller
// cannot tell an unknown user from a wrong password or an unmatched face.
var (
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFaceNotRecognized  = errors.New("face not recognized")
	ErrBadFaceImage       = errors.New("failed to process face image")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ValidationError reports malformed input with per-field detail.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input data"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid input data: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}
