package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/serve/auth"
	"github.com/landreg/registry-backend/internal/serve/httperror"
)

// RecoverHandler turns panics into 500 responses instead of dropped
// connections.
func RecoverHandler(appTracker apptracker.AppTracker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", r)
				}
				httperror.InternalServerError(req.Context(), "", err, nil, appTracker).Render(rw)
			}()
			next.ServeHTTP(rw, req)
		})
	}
}

// AuthMiddleware resolves the bearer token into an actor and stores it on the
// request context. Requests without a valid token never reach the handlers.
func AuthMiddleware(tokenParser auth.TokenParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			authHeader := req.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				httperror.Unauthorized("", nil).Render(rw)
				return
			}

			ctx := req.Context()
			actor, err := tokenParser.ParseToken(tokenString)
			if err != nil {
				applog.Ctx(ctx).Warnf("rejecting request with invalid token: %v", err)
				httperror.Unauthorized("", nil).Render(rw)
				return
			}

			next.ServeHTTP(rw, req.WithContext(entities.WithActor(ctx, actor)))
		})
	}
}
