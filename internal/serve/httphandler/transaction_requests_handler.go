package httphandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/serve/httperror"
	"github.com/landreg/registry-backend/internal/services"
	"github.com/landreg/registry-backend/internal/workflow"
)

type TransactionRequestsHandler struct {
	RequestService services.RequestService
	AppTracker     apptracker.AppTracker
}

// CreateRequest files a new transaction request. The payload is validated by
// the workflow rule set, not by struct tags, so the body is decoded as-is and
// every shape problem comes back as a field-keyed validation error.
func (h TransactionRequestsHandler) CreateRequest(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	var input workflow.CreateInput
	dec := json.NewDecoder(http.MaxBytesReader(nil, req.Body, MaxBodySize))
	if err := dec.Decode(&input); err != nil {
		httperror.BadRequest("Invalid request body.", nil).Render(rw)
		return
	}

	created, err := h.RequestService.CreateRequest(ctx, input, actor)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusCreated, created)
}

func (h TransactionRequestsHandler) GetRequest(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	request, err := h.RequestService.GetRequest(ctx, chi.URLParam(req, "id"), actor)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, request)
}

func (h TransactionRequestsHandler) ListRequests(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	query := req.URL.Query()
	filter := data.ListRequestsFilter{
		Status:              workflow.Status(query.Get("status")),
		Type:                workflow.RequestType(query.Get("type")),
		RequesterNationalID: query.Get("requester"),
		LandParcelID:        query.Get("landParcelId"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		httperror.BadRequest("Unknown status filter.", nil).Render(rw)
		return
	}
	if filter.Type != "" && !filter.Type.Valid() {
		httperror.BadRequest("Unknown transaction request type.", nil).Render(rw)
		return
	}

	requests, err := h.RequestService.ListRequests(ctx, filter, pageParams(query), actor)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, requests)
}

type RequestActionRequest struct {
	Action  string `json:"action" validate:"required,oneof=PROCESS FORWARD APPROVE REJECT CANCEL"`
	Comment string `json:"comment" validate:"omitempty,max=500"`
}

// PerformAction applies one workflow action to a request. Complete is not
// accepted here; it is driven by certificate issuance.
func (h TransactionRequestsHandler) PerformAction(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	var reqBody RequestActionRequest
	if httpErr := DecodeJSONAndValidate(ctx, req, &reqBody); httpErr != nil {
		httpErr.Render(rw)
		return
	}

	updated, err := h.RequestService.PerformAction(ctx, chi.URLParam(req, "id"), actor, workflow.Action(reqBody.Action), reqBody.Comment)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, updated)
}

func pageParams(query map[string][]string) entities.PageParams {
	get := func(key string) int {
		values := query[key]
		if len(values) == 0 {
			return 0
		}
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return 0
		}
		return n
	}
	return entities.PageParams{Limit: get("limit"), Offset: get("offset")}.Normalize()
}
