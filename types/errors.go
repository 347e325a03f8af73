package types

import (
	"errors"
	"fmt"
)

// exported errors
var (
	ErrNotFound          = errors.New("not found")
	ErrDenied            = errors.New("permission denied")
	ErrInvalidRole       = errors.New("unrecognized role")
	ErrMissingTarget     = errors.New("operation requires a target")
	ErrUnknownAction     = errors.New("unknown action")
	ErrUnknownRecordKind = errors.New("unknown record kind")
	ErrAlreadyExists     = errors.New("already exists")
	ErrImmutableField    = errors.New("write-once field cannot be changed")
	ErrNoResolver        = errors.New("resolver is not configured")
	ErrNoPersister       = errors.New("persister is not configured")
)

// DeniedError reports a negative verdict from the enforcement gate.
// It unwraps to ErrDenied, and carries the specific rule which failed
// so the caller can decide the user-facing wording.
type DeniedError struct {
	User   string
	Action Action
	Target string
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("user %s may not %s %s: %s", e.User, e.Action, e.Target, e.Reason)
}

func (e *DeniedError) Unwrap() error {
	return ErrDenied
}
