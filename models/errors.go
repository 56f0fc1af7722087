package models

import "github.com/pkg/errors"

// ErrorKind classifies business errors so controllers can map them to HTTP
// statuses without string matching. Internal errors stay plain wrapped errors.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindPermission ErrorKind = "permission_denied"
	KindNotFound   ErrorKind = "not_found"
	// KindInvalidState - the operation is not valid for the entity's current
	// state-machine position.
	KindInvalidState ErrorKind = "invalid_state"
	// KindConflict - a uniqueness invariant was violated (double clock-in,
	// duplicate membership, timer already running).
	KindConflict ErrorKind = "conflict"
	// KindOwnership - a cross-user data access attempt. Callers degrade it to
	// an empty result rather than leaking the foreign record.
	KindOwnership ErrorKind = "ownership_violation"
)

type BusinessError struct {
	Kind ErrorKind
	Msg  string
}

func (e *BusinessError) Error() string {
	return e.Msg
}

func NewError(kind ErrorKind, msg string) error {
	return &BusinessError{Kind: kind, Msg: msg}
}

// IsKind reports whether err (possibly wrapped with pkg/errors) is a business
// error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var bErr *BusinessError
	if errors.As(err, &bErr) {
		return bErr.Kind == kind
	}
	return false
}

// KindOf returns the business kind of err, or empty for internal errors.
func KindOf(err error) ErrorKind {
	var bErr *BusinessError
	if errors.As(err, &bErr) {
		return bErr.Kind
	}
	return ""
}
