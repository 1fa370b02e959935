package httperror

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/workflow"
)

type ErrorResponse struct {
	Status int                    `json:"-"`
	Error  string                 `json:"error"`
	Extras map[string]interface{} `json:"extras,omitempty"`
}

func (e ErrorResponse) Render(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		applog.Errorf("rendering error response: %v", err)
	}
}

type ErrorHandler struct {
	Error ErrorResponse
}

func (h ErrorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Error.Render(w)
}

var NotFound = ErrorResponse{
	Status: http.StatusNotFound,
	Error:  "The resource at the url requested was not found.",
}

var MethodNotAllowed = ErrorResponse{
	Status: http.StatusMethodNotAllowed,
	Error:  "The method is not allowed for resource at the url requested.",
}

func BadRequest(message string, extras map[string]interface{}) *ErrorResponse {
	if message == "" {
		message = "Invalid request"
	}

	return &ErrorResponse{
		Status: http.StatusBadRequest,
		Error:  message,
		Extras: extras,
	}
}

func Unauthorized(message string, extras map[string]interface{}) *ErrorResponse {
	if message == "" {
		message = "Not authorized."
	}

	return &ErrorResponse{
		Status: http.StatusUnauthorized,
		Error:  message,
		Extras: extras,
	}
}

func Forbidden(message string, extras map[string]interface{}) *ErrorResponse {
	if message == "" {
		message = "Not allowed."
	}

	return &ErrorResponse{
		Status: http.StatusForbidden,
		Error:  message,
		Extras: extras,
	}
}

func Conflict(message string, extras map[string]interface{}) *ErrorResponse {
	if message == "" {
		message = "The request conflicts with the resource's current state."
	}

	return &ErrorResponse{
		Status: http.StatusConflict,
		Error:  message,
		Extras: extras,
	}
}

func InternalServerError(ctx context.Context, message string, err error, extras map[string]interface{}, appTracker apptracker.AppTracker) *ErrorResponse {
	applog.Ctx(ctx).Error(err)
	if appTracker != nil {
		appTracker.CaptureException(err)
	} else {
		applog.Warn("App Tracker is nil")
	}

	return &ErrorResponse{
		Status: http.StatusInternalServerError,
		Error:  "An error occurred while processing this request.",
		Extras: extras,
	}
}

// FromServiceError maps the domain errors the services surface onto HTTP
// responses. Anything unrecognized becomes a 500.
func FromServiceError(ctx context.Context, err error, appTracker apptracker.AppTracker) *ErrorResponse {
	var vErr *workflow.ValidationError
	var uErr *workflow.UnauthorizedError
	switch {
	case errors.As(err, &vErr):
		return BadRequest("Validation error.", vErr.Fields)
	case errors.As(err, &uErr):
		return Forbidden(uErr.Error(), nil)
	case errors.Is(err, workflow.ErrMissingComment):
		return BadRequest("A comment is required when rejecting a request.", map[string]interface{}{"comment": "This field is required"})
	case errors.Is(err, workflow.ErrIllegalTransition):
		return Conflict("The action is not legal in the request's current status.", nil)
	case errors.Is(err, workflow.ErrUnknownRequestType):
		return BadRequest("Unknown transaction request type.", nil)
	case errors.Is(err, data.ErrRecordNotFound):
		return &ErrorResponse{Status: NotFound.Status, Error: NotFound.Error}
	case errors.Is(err, data.ErrConflict):
		return Conflict("The request was modified concurrently. Retry.", nil)
	default:
		return InternalServerError(ctx, "", err, nil, appTracker)
	}
}
