package entities

import "context"

// Organization identifies one of the three parties in the land-transaction
// workflow. The wire values match the MSP names used by the ledger network.
type Organization string

const (
	// OrgAuthority is the land-registry authority (approves/rejects).
	OrgAuthority Organization = "Org1"
	// OrgOffice is the government office (processes/forwards).
	OrgOffice Organization = "Org2"
	// OrgCitizen is the citizen-facing organization (files/cancels).
	OrgCitizen Organization = "Org3"
)

// Organizations lists the valid actor organizations.
var Organizations = []Organization{OrgAuthority, OrgOffice, OrgCitizen}

func (o Organization) Valid() bool {
	switch o {
	case OrgAuthority, OrgOffice, OrgCitizen:
		return true
	}
	return false
}

// Actor is the authenticated identity performing a workflow action. It is
// supplied by the authentication layer and trusted as given. ID is the
// actor's national identity number, which is also how request ownership is
// established.
type Actor struct {
	ID          string       `json:"id"`
	Org         Organization `json:"org"`
	DisplayName string       `json:"displayName"`
}

type actorContextKey struct{}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
