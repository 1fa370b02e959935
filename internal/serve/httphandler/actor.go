package httphandler

import (
	"net/http"

	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/serve/httperror"
)

// mustActor pulls the authenticated actor off the request context. The auth
// middleware guarantees it is there; a miss means the route was wired outside
// the authenticated group.
func mustActor(rw http.ResponseWriter, req *http.Request) (entities.Actor, bool) {
	actor, ok := entities.ActorFromContext(req.Context())
	if !ok {
		httperror.Unauthorized("", nil).Render(rw)
		return entities.Actor{}, false
	}
	return actor, true
}
