package httphandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/serve/httperror"
	"github.com/landreg/registry-backend/internal/validators"
)

// MaxBodySize bounds request bodies. Requests only carry metadata; document
// contents travel through a separate upload channel.
const MaxBodySize int64 = 1 << 20

func DecodeJSONAndValidate(ctx context.Context, req *http.Request, reqBody interface{}) *httperror.ErrorResponse {
	dec := json.NewDecoder(http.MaxBytesReader(nil, req.Body, MaxBodySize))
	if err := dec.Decode(reqBody); err != nil {
		return httperror.BadRequest("Invalid request body.", nil)
	}

	return ValidateRequestBody(ctx, reqBody)
}

func ValidateRequestBody(ctx context.Context, reqBody interface{}) *httperror.ErrorResponse {
	val := validators.NewValidator()
	if err := val.StructCtx(ctx, reqBody); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			extras := validators.ParseValidationError(vErrs)
			return httperror.BadRequest("Validation error.", extras)
		}
		applog.Ctx(ctx).Errorf("validating request body: %v", err)
		return httperror.BadRequest("Invalid request body.", nil)
	}
	return nil
}

func renderJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		applog.Errorf("rendering JSON response: %v", err)
	}
}
