// Package apperr carries the domain error taxonomy shared by the repository
// and the HTTP layer. Every repository failure is one of these kinds; the
// gateway maps kinds to status codes without inspecting messages.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindOwnership
	KindConflict
	KindCursor
	KindCredentials
)

// Error is a domain failure with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Message: msg} }
func Ownership(msg string) *Error   { return &Error{Kind: KindOwnership, Message: msg} }
func Conflict(msg string) *Error    { return &Error{Kind: KindConflict, Message: msg} }
func Cursor(msg string) *Error      { return &Error{Kind: KindCursor, Message: msg} }
func Credentials(msg string) *Error { return &Error{Kind: KindCredentials, Message: msg} }

// KindOf extracts the kind of err, or KindInternal for anything that is not
// an *Error (store failures surface this way).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound, KindCursor:
		return http.StatusNotFound
	case KindOwnership:
		return http.StatusForbidden
	case KindCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
