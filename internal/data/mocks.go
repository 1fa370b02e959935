package data

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/workflow"
)

// Ensure MockTransactionRequestModel implements all TransactionRequestModel methods
var _ interface {
	Insert(ctx context.Context, req workflow.TransactionRequest) (workflow.TransactionRequest, error)
	GetByID(ctx context.Context, id string) (workflow.TransactionRequest, error)
	List(ctx context.Context, filter ListRequestsFilter, page entities.PageParams) ([]workflow.TransactionRequest, error)
	Update(ctx context.Context, req workflow.TransactionRequest, expectedRevision int64) (workflow.TransactionRequest, error)
	CountByStatus(ctx context.Context) (map[workflow.Status]int, error)
} = (*MockTransactionRequestModel)(nil)

// MockTransactionRequestModel is a mock implementation of TransactionRequestModel
type MockTransactionRequestModel struct {
	mock.Mock
}

func (m *MockTransactionRequestModel) Insert(ctx context.Context, req workflow.TransactionRequest) (workflow.TransactionRequest, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(workflow.TransactionRequest), args.Error(1)
}

func (m *MockTransactionRequestModel) GetByID(ctx context.Context, id string) (workflow.TransactionRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(workflow.TransactionRequest), args.Error(1)
}

func (m *MockTransactionRequestModel) List(ctx context.Context, filter ListRequestsFilter, page entities.PageParams) ([]workflow.TransactionRequest, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]workflow.TransactionRequest), args.Error(1)
}

func (m *MockTransactionRequestModel) Update(ctx context.Context, req workflow.TransactionRequest, expectedRevision int64) (workflow.TransactionRequest, error) {
	args := m.Called(ctx, req, expectedRevision)
	return args.Get(0).(workflow.TransactionRequest), args.Error(1)
}

func (m *MockTransactionRequestModel) CountByStatus(ctx context.Context) (map[workflow.Status]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[workflow.Status]int), args.Error(1)
}

// MockLandParcelModel is a mock implementation of LandParcelModel
type MockLandParcelModel struct {
	mock.Mock
}

func (m *MockLandParcelModel) GetByID(ctx context.Context, id string) (LandParcel, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(LandParcel), args.Error(1)
}

func (m *MockLandParcelModel) ListByOwner(ctx context.Context, ownerNationalID string, page entities.PageParams) ([]LandParcel, error) {
	args := m.Called(ctx, ownerNationalID, page)
	return args.Get(0).([]LandParcel), args.Error(1)
}

func (m *MockLandParcelModel) Insert(ctx context.Context, sqlExec db.SQLExecuter, parcel LandParcel) error {
	args := m.Called(ctx, sqlExec, parcel)
	return args.Error(0)
}

func (m *MockLandParcelModel) UpdateOwner(ctx context.Context, sqlExec db.SQLExecuter, parcelID, ownerNationalID, ownerFullName string, now time.Time) error {
	args := m.Called(ctx, sqlExec, parcelID, ownerNationalID, ownerFullName, now)
	return args.Error(0)
}

func (m *MockLandParcelModel) UpdatePurpose(ctx context.Context, sqlExec db.SQLExecuter, parcelID, purpose string, now time.Time) error {
	args := m.Called(ctx, sqlExec, parcelID, purpose, now)
	return args.Error(0)
}

func (m *MockLandParcelModel) Retire(ctx context.Context, sqlExec db.SQLExecuter, parcelID string, now time.Time) error {
	args := m.Called(ctx, sqlExec, parcelID, now)
	return args.Error(0)
}

// MockCertificateModel is a mock implementation of CertificateModel
type MockCertificateModel struct {
	mock.Mock
}

func (m *MockCertificateModel) Insert(ctx context.Context, sqlExec db.SQLExecuter, cert Certificate) error {
	args := m.Called(ctx, sqlExec, cert)
	return args.Error(0)
}

func (m *MockCertificateModel) GetByID(ctx context.Context, id string) (Certificate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Certificate), args.Error(1)
}

func (m *MockCertificateModel) GetActiveByParcel(ctx context.Context, parcelID string) (Certificate, error) {
	args := m.Called(ctx, parcelID)
	return args.Get(0).(Certificate), args.Error(1)
}

func (m *MockCertificateModel) ListByOwner(ctx context.Context, ownerNationalID string) ([]Certificate, error) {
	args := m.Called(ctx, ownerNationalID)
	return args.Get(0).([]Certificate), args.Error(1)
}

func (m *MockCertificateModel) RevokeActiveByParcel(ctx context.Context, sqlExec db.SQLExecuter, parcelID string) error {
	args := m.Called(ctx, sqlExec, parcelID)
	return args.Error(0)
}

// MockDocumentModel is a mock implementation of DocumentModel
type MockDocumentModel struct {
	mock.Mock
}

func (m *MockDocumentModel) Insert(ctx context.Context, doc Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentModel) GetByID(ctx context.Context, id string) (Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Document), args.Error(1)
}

func (m *MockDocumentModel) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentModel) Verify(ctx context.Context, id, verifiedBy string) error {
	args := m.Called(ctx, id, verifiedBy)
	return args.Error(0)
}

// MockNotificationModel is a mock implementation of NotificationModel
type MockNotificationModel struct {
	mock.Mock
}

func (m *MockNotificationModel) Insert(ctx context.Context, notification Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationModel) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page entities.PageParams) ([]Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly, page)
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockNotificationModel) MarkRead(ctx context.Context, id, recipientID string) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}
