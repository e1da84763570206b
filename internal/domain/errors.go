package domain

import "errors"

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
)

// Error is the tagged failure every operation returns for business rule
// violations. Field is set for validation errors bound to one input field.
type Error struct {
	Kind  ErrorKind
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Msg
	}
	return e.Msg
}

func NewValidation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

func NewForbidden(msg string) *Error { return &Error{Kind: KindForbidden, Msg: msg} }
func NewNotFound(msg string) *Error  { return &Error{Kind: KindNotFound, Msg: msg} }
func NewConflict(msg string) *Error  { return &Error{Kind: KindConflict, Msg: msg} }

// AsError returns the domain error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsError(err)
	return ok && de.Kind == kind
}
