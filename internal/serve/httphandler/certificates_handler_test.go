package httphandler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/services"
	"github.com/landreg/registry-backend/internal/workflow"
)

func newCertificatesRouter(handler CertificatesHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/transaction-requests/{id}/certificates", handler.IssueCertificates)
	r.Get("/certificates", handler.ListCertificates)
	r.Get("/certificates/{id}", handler.GetCertificate)
	return r
}

func Test_CertificatesHandler_IssueCertificates(t *testing.T) {
	t.Run("issues and returns certificates", func(t *testing.T) {
		mockCertificateService := services.MockCertificateService{}
		certs := []data.Certificate{{
			ID:                "cert-1",
			CertificateNumber: "LRC-2026-ABCD1234",
			LandParcelID:      "HCM-Q1-00042",
			OwnerNationalID:   "079987654321",
			Status:            data.CertificateStatusActive,
			IssuedAt:          time.Now(),
		}}
		mockCertificateService.On("IssueCertificates", mock.Anything, "req-1", testOfficer).Return(certs, nil).Once()
		t.Cleanup(func() { mockCertificateService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newCertificatesRouter(CertificatesHandler{CertificateService: &mockCertificateService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodPost, "/transaction-requests/req-1/certificates", ""))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "LRC-2026-ABCD1234")
	})

	t.Run("request not yet approved maps to 409", func(t *testing.T) {
		mockCertificateService := services.MockCertificateService{}
		mockCertificateService.On("IssueCertificates", mock.Anything, "req-1", testOfficer).
			Return(nil, workflow.ErrIllegalTransition).
			Once()
		t.Cleanup(func() { mockCertificateService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newCertificatesRouter(CertificatesHandler{CertificateService: &mockCertificateService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodPost, "/transaction-requests/req-1/certificates", ""))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func Test_CertificatesHandler_ListCertificates(t *testing.T) {
	t.Run("citizens are scoped to themselves", func(t *testing.T) {
		mockCertificateService := services.MockCertificateService{}
		mockCertificateService.On("ListOwnerCertificates", mock.Anything, testCitizen.ID).
			Return([]data.Certificate{}, nil).
			Once()
		t.Cleanup(func() { mockCertificateService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newCertificatesRouter(CertificatesHandler{CertificateService: &mockCertificateService}).
			ServeHTTP(rr, authedRequest(testCitizen, http.MethodGet, "/certificates", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("citizen asking for another owner is denied", func(t *testing.T) {
		mockCertificateService := services.MockCertificateService{}
		t.Cleanup(func() { mockCertificateService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newCertificatesRouter(CertificatesHandler{CertificateService: &mockCertificateService}).
			ServeHTTP(rr, authedRequest(testCitizen, http.MethodGet, "/certificates?owner=079987654321", ""))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("officials must name an owner", func(t *testing.T) {
		mockCertificateService := services.MockCertificateService{}
		t.Cleanup(func() { mockCertificateService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newCertificatesRouter(CertificatesHandler{CertificateService: &mockCertificateService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodGet, "/certificates", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("officials list any owner", func(t *testing.T) {
		mockCertificateService := services.MockCertificateService{}
		mockCertificateService.On("ListOwnerCertificates", mock.Anything, "079987654321").
			Return([]data.Certificate{{ID: "cert-1"}}, nil).
			Once()
		t.Cleanup(func() { mockCertificateService.AssertExpectations(t) })

		rr := httptest.NewRecorder()
		newCertificatesRouter(CertificatesHandler{CertificateService: &mockCertificateService}).
			ServeHTTP(rr, authedRequest(testOfficer, http.MethodGet, "/certificates?owner=079987654321", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func Test_CertificatesHandler_GetCertificate(t *testing.T) {
	mockCertificateService := services.MockCertificateService{}
	mockCertificateService.On("GetCertificate", mock.Anything, "missing").
		Return(data.Certificate{}, data.ErrRecordNotFound).
		Once()
	t.Cleanup(func() { mockCertificateService.AssertExpectations(t) })

	rr := httptest.NewRecorder()
	newCertificatesRouter(CertificatesHandler{CertificateService: &mockCertificateService}).
		ServeHTTP(rr, authedRequest(entities.Actor{ID: "authority-03", Org: entities.OrgAuthority}, http.MethodGet, "/certificates/missing", ""))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
