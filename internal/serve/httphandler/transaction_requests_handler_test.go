package httphandler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/services"
	"github.com/landreg/registry-backend/internal/workflow"
)

var (
	testCitizen = entities.Actor{ID: "079123456789", Org: entities.OrgCitizen, DisplayName: "Nguyen Van A"}
	testOfficer = entities.Actor{ID: "officer-17", Org: entities.OrgOffice, DisplayName: "Tran Thi B"}
)

// authedRequest builds a request carrying an authenticated actor, the way the
// auth middleware would hand it to the router.
func authedRequest(actor entities.Actor, method, target, body string) *http.Request {
	var bodyReader *strings.Reader
	if body == "" {
		bodyReader = strings.NewReader("")
	} else {
		bodyReader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, bodyReader)
	return req.WithContext(entities.WithActor(req.Context(), actor))
}

func newRequestsRouter(handler TransactionRequestsHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/transaction-requests", handler.CreateRequest)
	r.Get("/transaction-requests", handler.ListRequests)
	r.Get("/transaction-requests/{id}", handler.GetRequest)
	r.Post("/transaction-requests/{id}/actions", handler.PerformAction)
	return r
}

func Test_TransactionRequestsHandler_CreateRequest(t *testing.T) {
	reqBody := `{
		"type": "transfer",
		"landParcelId": "HCM-Q1-00042",
		"requester": {"nationalId": "079123456789", "fullName": "Nguyen Van A", "phone": "0901234567"},
		"payload": {"transfer": {
			"newOwner": {"nationalId": "079987654321", "fullName": "Le Van C", "phone": "0907654321"},
			"reason": "Sale of the parcel to the new owner"
		}},
		"documents": ["doc-1"]
	}`

	t.Run("returns the created request", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		created := workflow.TransactionRequest{ID: "req-1", Type: workflow.TypeTransfer, Status: workflow.StatusPending}
		mockRequestService.On("CreateRequest", mock.Anything, mock.AnythingOfType("workflow.CreateInput"), testCitizen).
			Run(func(args mock.Arguments) {
				input := args.Get(1).(workflow.CreateInput)
				assert.Equal(t, workflow.TypeTransfer, input.Type)
				assert.Equal(t, "HCM-Q1-00042", input.LandParcelID)
				assert.Equal(t, []string{"doc-1"}, input.Documents)
			}).
			Return(created, nil).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testCitizen, http.MethodPost, "/transaction-requests", reqBody))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"req-1"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testCitizen, http.MethodPost, "/transaction-requests", "{not json"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error": "Invalid request body."}`, rr.Body.String())
	})

	t.Run("validation failure maps to field errors", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		vErr := &workflow.ValidationError{Fields: map[string]interface{}{"payload.transfer.reason": "This field is required"}}
		mockRequestService.On("CreateRequest", mock.Anything, mock.Anything, testCitizen).
			Return(workflow.TransactionRequest{}, vErr).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testCitizen, http.MethodPost, "/transaction-requests", reqBody))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error": "Validation error.", "extras": {"payload.transfer.reason": "This field is required"}}`, rr.Body.String())
	})

	t.Run("unauthorized filer maps to 403", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		uErr := &workflow.UnauthorizedError{Org: entities.OrgOffice, Action: workflow.ActionCreate, Reason: "only citizens file transaction requests"}
		mockRequestService.On("CreateRequest", mock.Anything, mock.Anything, testOfficer).
			Return(workflow.TransactionRequest{}, uErr).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodPost, "/transaction-requests", reqBody))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func Test_TransactionRequestsHandler_GetRequest(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		mockRequestService.On("GetRequest", mock.Anything, "req-1", testCitizen).
			Return(workflow.TransactionRequest{ID: "req-1", Status: workflow.StatusPending}, nil).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testCitizen, http.MethodGet, "/transaction-requests/req-1", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"PENDING"`)
	})

	t.Run("not found", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		mockRequestService.On("GetRequest", mock.Anything, "missing", testCitizen).
			Return(workflow.TransactionRequest{}, data.ErrRecordNotFound).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testCitizen, http.MethodGet, "/transaction-requests/missing", ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func Test_TransactionRequestsHandler_ListRequests(t *testing.T) {
	t.Run("passes filters and pagination through", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		wantFilter := data.ListRequestsFilter{Status: workflow.StatusPending, Type: workflow.TypeTransfer}
		wantPage := entities.PageParams{Limit: 10, Offset: 20}
		mockRequestService.On("ListRequests", mock.Anything, wantFilter, wantPage, testOfficer).
			Return([]workflow.TransactionRequest{{ID: "req-1"}}, nil).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodGet, "/transaction-requests?status=PENDING&type=transfer&limit=10&offset=20", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodGet, "/transaction-requests?status=DONE", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown type filter", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodGet, "/transaction-requests?type=donate", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func Test_TransactionRequestsHandler_PerformAction(t *testing.T) {
	t.Run("applies the action", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		updated := workflow.TransactionRequest{ID: "req-1", Status: workflow.StatusUnderReview}
		mockRequestService.On("PerformAction", mock.Anything, "req-1", testOfficer, workflow.ActionProcess, "taking this up").
			Return(updated, nil).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodPost, "/transaction-requests/req-1/actions", `{"action": "PROCESS", "comment": "taking this up"}`))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"UNDER_REVIEW"`)
	})

	t.Run("unknown action is rejected before the service", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodPost, "/transaction-requests/req-1/actions", `{"action": "COMPLETE"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"action"`)
	})

	t.Run("illegal transition maps to 409", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		mockRequestService.On("PerformAction", mock.Anything, "req-1", testOfficer, workflow.ActionApprove, "").
			Return(workflow.TransactionRequest{}, workflow.ErrIllegalTransition).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodPost, "/transaction-requests/req-1/actions", `{"action": "APPROVE"}`))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("concurrent modification maps to 409", func(t *testing.T) {
		mockRequestService := services.MockRequestService{}
		mockRequestService.On("PerformAction", mock.Anything, "req-1", testOfficer, workflow.ActionProcess, "").
			Return(workflow.TransactionRequest{}, fmt.Errorf("performing action: %w", data.ErrConflict)).
			Once()
		t.Cleanup(func() { mockRequestService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newRequestsRouter(TransactionRequestsHandler{RequestService: &mockRequestService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodPost, "/transaction-requests/req-1/actions", `{"action": "PROCESS"}`))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "modified concurrently")
	})
}
