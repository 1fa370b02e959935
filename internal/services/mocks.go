package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/workflow"
)

// MockRequestService is a mock implementation of RequestService
type MockRequestService struct {
	mock.Mock
}

var _ RequestService = (*MockRequestService)(nil)

func (m *MockRequestService) CreateRequest(ctx context.Context, input workflow.CreateInput, actor entities.Actor) (workflow.TransactionRequest, error) {
	args := m.Called(ctx, input, actor)
	return args.Get(0).(workflow.TransactionRequest), args.Error(1)
}

func (m *MockRequestService) GetRequest(ctx context.Context, id string, actor entities.Actor) (workflow.TransactionRequest, error) {
	args := m.Called(ctx, id, actor)
	return args.Get(0).(workflow.TransactionRequest), args.Error(1)
}

func (m *MockRequestService) ListRequests(ctx context.Context, filter data.ListRequestsFilter, page entities.PageParams, actor entities.Actor) ([]workflow.TransactionRequest, error) {
	args := m.Called(ctx, filter, page, actor)
	return args.Get(0).([]workflow.TransactionRequest), args.Error(1)
}

func (m *MockRequestService) PerformAction(ctx context.Context, id string, actor entities.Actor, action workflow.Action, comment string) (workflow.TransactionRequest, error) {
	args := m.Called(ctx, id, actor, action, comment)
	return args.Get(0).(workflow.TransactionRequest), args.Error(1)
}

func (m *MockRequestService) RefreshOpenRequestsMetric(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCertificateService is a mock implementation of CertificateService
type MockCertificateService struct {
	mock.Mock
}

var _ CertificateService = (*MockCertificateService)(nil)

func (m *MockCertificateService) IssueCertificates(ctx context.Context, requestID string, actor entities.Actor) ([]data.Certificate, error) {
	args := m.Called(ctx, requestID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.Certificate), args.Error(1)
}

func (m *MockCertificateService) GetCertificate(ctx context.Context, id string) (data.Certificate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(data.Certificate), args.Error(1)
}

func (m *MockCertificateService) ListOwnerCertificates(ctx context.Context, ownerNationalID string) ([]data.Certificate, error) {
	args := m.Called(ctx, ownerNationalID)
	return args.Get(0).([]data.Certificate), args.Error(1)
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	mock.Mock
}

var _ NotificationService = (*MockNotificationService)(nil)

func (m *MockNotificationService) NotifyStatusChange(ctx context.Context, req workflow.TransactionRequest) {
	m.Called(ctx, req)
}

func (m *MockNotificationService) NotifyCertificateIssued(ctx context.Context, cert data.Certificate, req workflow.TransactionRequest) {
	m.Called(ctx, cert, req)
}

func (m *MockNotificationService) ListInbox(ctx context.Context, actor entities.Actor, unreadOnly bool, page entities.PageParams) ([]data.Notification, error) {
	args := m.Called(ctx, actor, unreadOnly, page)
	return args.Get(0).([]data.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, actor entities.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockNotificationService) Shutdown() {
	m.Called()
}

// MockParcelService is a mock implementation of ParcelService
type MockParcelService struct {
	mock.Mock
}

var _ ParcelService = (*MockParcelService)(nil)

func (m *MockParcelService) RegisterParcel(ctx context.Context, parcel data.LandParcel, actor entities.Actor) (data.LandParcel, error) {
	args := m.Called(ctx, parcel, actor)
	return args.Get(0).(data.LandParcel), args.Error(1)
}

func (m *MockParcelService) GetParcel(ctx context.Context, id string) (data.LandParcel, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(data.LandParcel), args.Error(1)
}

func (m *MockParcelService) ListOwnerParcels(ctx context.Context, ownerNationalID string, page entities.PageParams, actor entities.Actor) ([]data.LandParcel, error) {
	args := m.Called(ctx, ownerNationalID, page, actor)
	return args.Get(0).([]data.LandParcel), args.Error(1)
}

// MockDocumentService is a mock implementation of DocumentService
type MockDocumentService struct {
	mock.Mock
}

var _ DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) RegisterDocument(ctx context.Context, fileName, contentHash string, actor entities.Actor) (data.Document, error) {
	args := m.Called(ctx, fileName, contentHash, actor)
	return args.Get(0).(data.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, id string) (data.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(data.Document), args.Error(1)
}

func (m *MockDocumentService) VerifyDocument(ctx context.Context, id string, actor entities.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}
