package workflow

import (
	set "github.com/deckarep/golang-set/v2"

	"github.com/landreg/registry-backend/internal/entities"
)

// roleActions is the single source of truth for "who can do what, when".
// Every organization-facing surface consults this table instead of encoding
// its own role checks.
//
// Org3's Cancel additionally requires the acting citizen to own the request;
// that precondition lives in the engine, not here.
var roleActions = map[entities.Organization]map[Status]set.Set[Action]{
	entities.OrgAuthority: {
		StatusForwarded: set.NewSet(ActionApprove, ActionReject),
	},
	entities.OrgOffice: {
		StatusPending:     set.NewSet(ActionProcess, ActionForward, ActionReject),
		StatusUnderReview: set.NewSet(ActionForward, ActionReject),
	},
	entities.OrgCitizen: {
		StatusPending: set.NewSet(ActionCancel),
	},
}

// AllowedActions returns the set of actions the organization may invoke on a
// request in the given status. The returned set is a copy; mutating it does
// not affect the matrix.
func AllowedActions(org entities.Organization, status Status) set.Set[Action] {
	if actions, ok := roleActions[org][status]; ok {
		return actions.Clone()
	}
	return set.NewSet[Action]()
}

// Permitted reports whether the organization may invoke the action on a
// request in the given status.
func Permitted(org entities.Organization, status Status, action Action) bool {
	actions, ok := roleActions[org][status]
	return ok && actions.Contains(action)
}
