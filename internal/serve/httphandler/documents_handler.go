package httphandler

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/serve/httperror"
	"github.com/landreg/registry-backend/internal/services"
)

type DocumentsHandler struct {
	DocumentService services.DocumentService
	AppTracker      apptracker.AppTracker
}

type RegisterDocumentRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentHash string `json:"contentHash" validate:"required,len=64,hexadecimal"`
}

func (h DocumentsHandler) RegisterDocument(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	var reqBody RegisterDocumentRequest
	if httpErr := DecodeJSONAndValidate(ctx, req, &reqBody); httpErr != nil {
		httpErr.Render(rw)
		return
	}

	doc, err := h.DocumentService.RegisterDocument(ctx, reqBody.FileName, reqBody.ContentHash, actor)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusCreated, doc)
}

func (h DocumentsHandler) GetDocument(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	doc, err := h.DocumentService.GetDocument(ctx, chi.URLParam(req, "id"))
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, doc)
}

func (h DocumentsHandler) VerifyDocument(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	if err := h.DocumentService.VerifyDocument(ctx, chi.URLParam(req, "id"), actor); err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}
