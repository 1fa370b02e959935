package httphandler

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/serve/httperror"
	"github.com/landreg/registry-backend/internal/services"
)

type CertificatesHandler struct {
	CertificateService services.CertificateService
	AppTracker         apptracker.AppTracker
}

// IssueCertificates finalizes an approved request and returns the
// certificate(s) it produced.
func (h CertificatesHandler) IssueCertificates(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	certificates, err := h.CertificateService.IssueCertificates(ctx, chi.URLParam(req, "id"), actor)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusCreated, certificates)
}

func (h CertificatesHandler) GetCertificate(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	certificate, err := h.CertificateService.GetCertificate(ctx, chi.URLParam(req, "id"))
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, certificate)
}

// ListCertificates lists certificates by owner. Citizens are scoped to their
// own holdings.
func (h CertificatesHandler) ListCertificates(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	owner := req.URL.Query().Get("owner")
	if actor.Org == entities.OrgCitizen {
		if owner != "" && owner != actor.ID {
			httperror.Forbidden("Citizens may only list their own certificates.", nil).Render(rw)
			return
		}
		owner = actor.ID
	}
	if owner == "" {
		httperror.BadRequest("The owner query parameter is required.", nil).Render(rw)
		return
	}

	certificates, err := h.CertificateService.ListOwnerCertificates(ctx, owner)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, certificates)
}
