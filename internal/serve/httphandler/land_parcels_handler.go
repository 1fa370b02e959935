package httphandler

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/serve/httperror"
	"github.com/landreg/registry-backend/internal/services"
)

type LandParcelsHandler struct {
	ParcelService services.ParcelService
	AppTracker    apptracker.AppTracker
}

type RegisterParcelRequest struct {
	ID              string  `json:"id" validate:"required,parcel_id"`
	OwnerNationalID string  `json:"ownerNationalId" validate:"required,national_id"`
	OwnerFullName   string  `json:"ownerFullName" validate:"required,min=2,max=100"`
	Area            float64 `json:"area" validate:"required,gt=0"`
	Purpose         string  `json:"purpose" validate:"required,land_purpose"`
	Address         string  `json:"address" validate:"required,max=500"`
}

// RegisterParcel records a parcel in the registry. Only the land-registry
// authority may call it.
func (h LandParcelsHandler) RegisterParcel(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	var reqBody RegisterParcelRequest
	if httpErr := DecodeJSONAndValidate(ctx, req, &reqBody); httpErr != nil {
		httpErr.Render(rw)
		return
	}

	parcel, err := h.ParcelService.RegisterParcel(ctx, data.LandParcel{
		ID:              reqBody.ID,
		OwnerNationalID: reqBody.OwnerNationalID,
		OwnerFullName:   reqBody.OwnerFullName,
		Area:            reqBody.Area,
		Purpose:         reqBody.Purpose,
		Address:         reqBody.Address,
	}, actor)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusCreated, parcel)
}

func (h LandParcelsHandler) GetParcel(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	parcel, err := h.ParcelService.GetParcel(ctx, chi.URLParam(req, "id"))
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, parcel)
}

// ListParcels lists parcels by owner. Citizens omit the owner parameter and
// get their own holdings.
func (h LandParcelsHandler) ListParcels(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	actor, ok := mustActor(rw, req)
	if !ok {
		return
	}

	query := req.URL.Query()
	parcels, err := h.ParcelService.ListOwnerParcels(ctx, query.Get("owner"), pageParams(query), actor)
	if err != nil {
		httperror.FromServiceError(ctx, err, h.AppTracker).Render(rw)
		return
	}

	renderJSON(rw, http.StatusOK, parcels)
}
