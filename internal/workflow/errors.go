package workflow

import (
	"errors"
	"fmt"

	"github.com/landreg/registry-backend/internal/entities"
)

var (
	// ErrIllegalTransition is returned when no edge exists from the request's
	// current status for the requested action. The request is left unchanged.
	ErrIllegalTransition = errors.New("illegal transition for current status")

	// ErrMissingComment is returned when Reject is invoked without a
	// rejection reason.
	ErrMissingComment = errors.New("a rejection comment is required")

	// ErrUnknownRequestType is returned for a request type outside the fixed
	// set. This is a structural error, not a field validation failure.
	ErrUnknownRequestType = errors.New("unknown transaction request type")
)

// UnauthorizedError means the actor's organization may not invoke the action
// in the request's current status, or the ownership precondition failed.
// Surfacing one of these usually indicates a UI offering an action it should
// not have.
type UnauthorizedError struct {
	Org    entities.Organization
	Status Status
	Action Action
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s may not %s a request in status %s: %s", e.Org, e.Action, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s may not %s a request in status %s", e.Org, e.Action, e.Status)
}

// ValidationError carries the field-keyed messages produced by the
// per-type rule set. Fields keys are json paths (e.g. "newOwner.nationalId").
type ValidationError struct {
	Fields map[string]interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payload validation failed on %d field(s)", len(e.Fields))
}
