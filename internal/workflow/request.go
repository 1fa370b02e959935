package workflow

import (
	"fmt"
	"time"

	"github.com/landreg/registry-backend/internal/entities"
)

// Priority is an advisory processing hint. It never affects transition
// legality.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// SystemActorID is recorded as the history actor for transitions driven by
// the system itself (certificate issuance completing a request).
const SystemActorID = "system"

// SystemOrg is the organization recorded for system-driven transitions.
const SystemOrg entities.Organization = "system"

// CancelComment is the reason recorded when a citizen withdraws their own
// request.
const CancelComment = "cancelled_by_requester"

// HistoryEntry is one audit record of a workflow transition. History is
// append-only: every successful transition adds exactly one entry and no
// entry is ever rewritten or deleted.
type HistoryEntry struct {
	ActorID   string                `json:"actor"`
	Org       entities.Organization `json:"org"`
	Action    Action                `json:"action"`
	Comment   string                `json:"comment,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

// TransactionRequest is the canonical shape of a land-transaction request.
// Values are passed by value through the engine; a successful action returns
// an updated copy and never mutates its input.
type TransactionRequest struct {
	ID           string      `json:"id"`
	Type         RequestType `json:"type"`
	LandParcelID string      `json:"landParcelId"`
	Requester    Party       `json:"requester"`
	Payload      Payload     `json:"payload"`
	Documents    []string    `json:"documents"`
	Priority     Priority    `json:"priority"`
	Status       Status      `json:"status"`
	History      []HistoryEntry `json:"history"`

	// Revision is the optimistic-concurrency marker maintained by the
	// persistence collaborator. The engine carries it through untouched.
	Revision  int64     `json:"revision"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// clone returns a deep copy so that a failed or successful action can never
// alias the caller's slices.
func (r TransactionRequest) clone() TransactionRequest {
	out := r
	out.History = make([]HistoryEntry, len(r.History))
	copy(out.History, r.History)
	out.Documents = make([]string, len(r.Documents))
	copy(out.Documents, r.Documents)
	return out
}

// ReplayStatus derives the status implied by a request's history. The stored
// status must always equal the replayed one; a divergence means the record
// was corrupted outside the engine.
func ReplayStatus(history []HistoryEntry) (Status, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("history must contain at least the creation entry")
	}
	if history[0].Action != ActionCreate {
		return "", fmt.Errorf("history must start with %s, got %s", ActionCreate, history[0].Action)
	}
	status := StatusPending
	for _, entry := range history[1:] {
		next, err := NextStatus(entry.Action, status)
		if err != nil {
			return "", fmt.Errorf("replaying %s at %s: %w", entry.Action, status, err)
		}
		status = next
	}
	return status, nil
}
