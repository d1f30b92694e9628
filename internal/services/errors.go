package services

import "errors"

// ErrForbidden is returned when the acting role lacks the capability an
// operation requires.
var ErrForbidden = errors.New("forbidden: insufficient permissions")
