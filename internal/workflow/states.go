// Package workflow implements the land-transaction workflow engine: the
// canonical request model, the per-type validation rule set, the state
// machine, and the role-action matrix shared by every organization-facing
// surface. The engine is pure — it performs no I/O and holds no shared state;
// callers fetch a request snapshot, apply an action, and persist the result
// with an optimistic revision check.
package workflow

// RequestType identifies the kind of land transaction being requested. Fixed
// at creation, never mutated.
type RequestType string

const (
	TypeTransfer      RequestType = "transfer"
	TypeSplit         RequestType = "split"
	TypeMerge         RequestType = "merge"
	TypeChangePurpose RequestType = "change_purpose"
	TypeReissue       RequestType = "reissue"
)

// RequestTypes lists every valid transaction request type.
var RequestTypes = []RequestType{TypeTransfer, TypeSplit, TypeMerge, TypeChangePurpose, TypeReissue}

func (t RequestType) Valid() bool {
	switch t {
	case TypeTransfer, TypeSplit, TypeMerge, TypeChangePurpose, TypeReissue:
		return true
	}
	return false
}

// Status is a transaction request's lifecycle state. Status values are only
// ever assigned through the transition table below, never directly.
type Status string

const (
	// StatusPending is the initial state of every filed request.
	StatusPending Status = "PENDING"
	// StatusUnderReview means the government office has taken the request up.
	StatusUnderReview Status = "UNDER_REVIEW"
	// StatusForwarded means the request sits with the land-registry authority.
	StatusForwarded Status = "FORWARDED"
	// StatusApproved is terminal for manual actions; certificate issuance
	// drives the final Complete transition.
	StatusApproved Status = "APPROVED"
	// StatusRejected is terminal.
	StatusRejected Status = "REJECTED"
	// StatusCompleted is terminal.
	StatusCompleted Status = "COMPLETED"
)

// Statuses lists every lifecycle state.
var Statuses = []Status{StatusPending, StatusUnderReview, StatusForwarded, StatusApproved, StatusRejected, StatusCompleted}

// IsTerminal reports whether the status has no outgoing transitions.
// Terminal requests are retained for audit, never deleted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCompleted:
		// APPROVED still has the system-driven Complete edge, so it is not
		// terminal in the state-machine sense.
		return s != StatusApproved
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusForwarded, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Action is a workflow transition trigger.
type Action string

const (
	// ActionCreate is the implicit action recorded when a citizen files a
	// request. It never appears in the transition table; creation is handled
	// by Engine.CreateRequest.
	ActionCreate Action = "CREATE"
	ActionProcess Action = "PROCESS"
	ActionForward Action = "FORWARD"
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
	// ActionComplete is driven by certificate issuance, not by a manual
	// organization action.
	ActionComplete Action = "COMPLETE"
	ActionCancel   Action = "CANCEL"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionProcess, ActionForward, ActionApprove, ActionReject, ActionComplete, ActionCancel:
		return true
	}
	return false
}

type transitionKey struct {
	action Action
	from   Status
}

// transitions is the complete edge set of the state machine. Any
// (action, status) pair absent from this table is an illegal transition.
var transitions = map[transitionKey]Status{
	{ActionProcess, StatusPending}:      StatusUnderReview,
	{ActionForward, StatusPending}:      StatusForwarded,
	{ActionForward, StatusUnderReview}:  StatusForwarded,
	{ActionApprove, StatusForwarded}:    StatusApproved,
	{ActionReject, StatusPending}:       StatusRejected,
	{ActionReject, StatusUnderReview}:   StatusRejected,
	{ActionReject, StatusForwarded}:     StatusRejected,
	{ActionComplete, StatusApproved}:    StatusCompleted,
	{ActionCancel, StatusPending}:       StatusRejected,
}

// NextStatus computes the state the request moves to when action fires in the
// from state. Returns ErrIllegalTransition when no such edge exists.
func NextStatus(action Action, from Status) (Status, error) {
	next, ok := transitions[transitionKey{action: action, from: from}]
	if !ok {
		return "", ErrIllegalTransition
	}
	return next, nil
}
