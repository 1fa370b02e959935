package httphandler

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/serve/httperror"
	"github.com/landreg/registry-backend/internal/services"
)

type NotificationsHandler struct {
	NotificationService services.NotificationService
	AppTracker          apptracker.AppTracker
}

func (h NotificationsHandler) ListInbox(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	query := req.URL.Query()
	unreadOnly := query.Get("unread") == "true"
	notifications, err := h.NotificationService.ListInbox(ctx, actor, unreadOnly, pageParams(query))
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, notifications)
}

func (h NotificationsHandler) MarkRead(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	if err := h.NotificationService.MarkRead(ctx, actor, chi.URLParam(req, "id")); err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}
