package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/landreg/registry-backend/internal/entities"
)

// Engine is the workflow façade. It decides, for a given request snapshot,
// actor, and action, whether the transition is legal, and produces the
// updated request value. It performs no I/O; persisting the result (with the
// snapshot's revision as the expected revision) is the caller's job.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// CreateInput is everything a citizen supplies when filing a request.
type CreateInput struct {
	Type         RequestType `json:"type"`
	LandParcelID string      `json:"landParcelId"`
	Requester    Party       `json:"requester"`
	Payload      Payload     `json:"payload"`
	Documents    []string    `json:"documents"`
	Priority     Priority    `json:"priority"`
}

// CreateRequest files a new transaction request. Only a citizen may file, and
// only on their own behalf. The payload is validated against the type's rule
// set before the request exists — an invalid payload never reaches PENDING.
func (e *Engine) CreateRequest(input CreateInput, actor entities.Actor, now time.Time) (TransactionRequest, error) {
	if actor.Org != entities.OrgCitizen {
		return TransactionRequest{}, &UnauthorizedError{Org: actor.Org, Action: ActionCreate, Reason: "only citizens file transaction requests"}
	}
	if actor.ID != input.Requester.NationalID {
		return TransactionRequest{}, &UnauthorizedError{Org: actor.Org, Action: ActionCreate, Reason: "requester identity does not match the authenticated actor"}
	}

	if err := ValidateNewRequest(input); err != nil {
		return TransactionRequest{}, err
	}

	if input.Priority == "" {
		input.Priority = PriorityMedium
	}

	req := TransactionRequest{
		ID:           uuid.NewString(),
		Type:         input.Type,
		LandParcelID: input.LandParcelID,
		Requester:    input.Requester,
		Payload:      input.Payload,
		Documents:    append([]string(nil), input.Documents...),
		Priority:     input.Priority,
		Status:       StatusPending,
		History: []HistoryEntry{{
			ActorID:   actor.ID,
			Org:       actor.Org,
			Action:    ActionCreate,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return req, nil
}

// ApplyAction validates and applies one workflow action to a request
// snapshot. On success it returns an updated copy with the new status and
// exactly one appended history entry; on any failure the input is returned
// unchanged and no history is appended.
func (e *Engine) ApplyAction(req TransactionRequest, actor entities.Actor, action Action, comment string, now time.Time) (TransactionRequest, error) {
	if !Permitted(actor.Org, req.Status, action) {
		return req, &UnauthorizedError{Org: actor.Org, Status: req.Status, Action: action}
	}

	// Citizens may only withdraw their own requests. The matrix cannot
	// express ownership, so it is checked here.
	if action == ActionCancel && actor.ID != req.Requester.NationalID {
		return req, &UnauthorizedError{Org: actor.Org, Status: req.Status, Action: action, Reason: "requests may only be cancelled by their requester"}
	}

	if action == ActionReject && comment == "" {
		return req, ErrMissingComment
	}
	// Withdrawals always record the canonical reason, whatever the caller
	// supplied.
	if action == ActionCancel {
		comment = CancelComment
	}

	next, err := NextStatus(action, req.Status)
	if err != nil {
		return req, err
	}

	updated := req.clone()
	updated.Status = next
	updated.UpdatedAt = now
	updated.History = append(updated.History, HistoryEntry{
		ActorID:   actor.ID,
		Org:       actor.Org,
		Action:    action,
		Comment:   comment,
		Timestamp: now,
	})
	return updated, nil
}

// Complete drives the system transition fired by certificate issuance. It is
// transition-checked but bypasses the role matrix: no organization owns this
// action.
func (e *Engine) Complete(req TransactionRequest, now time.Time) (TransactionRequest, error) {
	next, err := NextStatus(ActionComplete, req.Status)
	if err != nil {
		return req, err
	}

	updated := req.clone()
	updated.Status = next
	updated.UpdatedAt = now
	updated.History = append(updated.History, HistoryEntry{
		ActorID:   SystemActorID,
		Org:       SystemOrg,
		Action:    ActionComplete,
		Comment:   "certificate issued",
		Timestamp: now,
	})
	return updated, nil
}
