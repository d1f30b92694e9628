package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies workflow failures. Every kind is recoverable: the caller
// re-fetches current state and may retry.
type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindInvalidTransition Kind = "InvalidTransition"
	KindValidation        Kind = "ValidationError"
	KindConflict          Kind = "Conflict"
)

// Sentinels for errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid transition"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation error"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on kind. A Conflict is a stale-state rejection and also matches
// ErrInvalidTransition.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind == t.Kind {
		return true
	}
	return e.Kind == KindConflict && t.Kind == KindInvalidTransition
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first workflow error in err's chain, or ""
// if there is none.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}
