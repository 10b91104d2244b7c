package model

import (
	"errors"
	"strings"
)

var (
	ErrQuizNotFound     = errors.New("no quiz available for this date")
	ErrQuizExists       = errors.New("quiz already exists for this date")
	ErrAttemptNotFound  = errors.New("no active attempt found")
	ErrAttemptExists    = errors.New("attempt already exists")
	ErrQuizCompleted    = errors.New("quiz already completed")
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreUnavailable = errors.New("document store unavailable")
)

// ValidationError reports every structural problem found in a quiz payload,
// not just the first one.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation errors: " + strings.Join(e.Problems, ", ")
}
