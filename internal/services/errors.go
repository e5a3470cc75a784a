package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid input")
	ErrContentPolicy      = errors.New("Comment contains inappropriate content")
	ErrAlreadyReported    = errors.New("You have already reported this comment")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrCommentNotFound      = fmt.Errorf("comment %w", ErrNotFound)
	ErrProfileNotFound      = fmt.Errorf("profile %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
)

// Error pairs a sentinel kind with a message safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// PublicMessage returns the text of err that may be shown to a client. Errors
// outside the service taxonomy get an empty string.
func PublicMessage(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	for _, kind := range []error{
		ErrCommentNotFound, ErrProfileNotFound, ErrNotificationNotFound,
		ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrValidation,
		ErrContentPolicy, ErrAlreadyReported, ErrConflict, ErrInvalidCredentials,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ""
}
