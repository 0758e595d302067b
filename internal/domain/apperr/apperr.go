// Package apperr classifies domain failures so transports can map them to
// status codes and localized messages without knowing every sentinel.
package apperr

import "errors"

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindState         Kind = "state"
)

// Error is a classified domain error. Code is stable and used for the
// response envelope and message lookup; Message is the English fallback.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func (e *Error) Error() string {
	return e.Message
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func KindOf(err error) (Kind, bool) {
	target, ok := As(err)
	if !ok {
		return "", false
	}
	return target.Kind, true
}
