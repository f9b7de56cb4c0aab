// internal/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"
)

// The four failure classes a workflow transition can surface. A failed
// transition never mutates local state, so callers can inspect the class and
// decide: NotFound and Authorization are terminal for the attempted action,
// Conflict means refresh-and-reevaluate, Transport means the caller may
// resubmit (which mints a new command id, see NewCommandID).

type NotFoundError struct {
	Kind       string
	ContractID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contract %s of %s not found", e.ContractID, e.Kind)
}

type AuthorizationError struct {
	Party  string
	Choice string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("party %s is not authorized to exercise %s", e.Party, e.Choice)
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("command rejected by ledger: %s", e.Reason)
}

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ledger transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
