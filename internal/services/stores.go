package services

import (
	"context"
	"time"

	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/workflow"
)

// Store interfaces consumed by the services. The concrete data models satisfy
// them; tests substitute the mocks from the data package.

type TransactionRequestStore interface {
	Insert(ctx context.Context, req workflow.TransactionRequest) (workflow.TransactionRequest, error)
	GetByID(ctx context.Context, id string) (workflow.TransactionRequest, error)
	List(ctx context.Context, filter data.ListRequestsFilter, page entities.PageParams) ([]workflow.TransactionRequest, error)
	Update(ctx context.Context, req workflow.TransactionRequest, expectedRevision int64) (workflow.TransactionRequest, error)
	CountByStatus(ctx context.Context) (map[workflow.Status]int, error)
}

type LandParcelStore interface {
	GetByID(ctx context.Context, id string) (data.LandParcel, error)
	ListByOwner(ctx context.Context, ownerNationalID string, page entities.PageParams) ([]data.LandParcel, error)
	Insert(ctx context.Context, sqlExec db.SQLExecuter, parcel data.LandParcel) error
	UpdateOwner(ctx context.Context, sqlExec db.SQLExecuter, parcelID, ownerNationalID, ownerFullName string, now time.Time) error
	UpdatePurpose(ctx context.Context, sqlExec db.SQLExecuter, parcelID, purpose string, now time.Time) error
	Retire(ctx context.Context, sqlExec db.SQLExecuter, parcelID string, now time.Time) error
}

type CertificateStore interface {
	Insert(ctx context.Context, sqlExec db.SQLExecuter, cert data.Certificate) error
	GetByID(ctx context.Context, id string) (data.Certificate, error)
	GetActiveByParcel(ctx context.Context, parcelID string) (data.Certificate, error)
	ListByOwner(ctx context.Context, ownerNationalID string) ([]data.Certificate, error)
	RevokeActiveByParcel(ctx context.Context, sqlExec db.SQLExecuter, parcelID string) error
}

type DocumentStore interface {
	Insert(ctx context.Context, doc data.Document) error
	GetByID(ctx context.Context, id string) (data.Document, error)
	MissingIDs(ctx context.Context, ids []string) ([]string, error)
	Verify(ctx context.Context, id, verifiedBy string) error
}

type NotificationStore interface {
	Insert(ctx context.Context, notification data.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page entities.PageParams) ([]data.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

var (
	_ TransactionRequestStore = (*data.TransactionRequestModel)(nil)
	_ TransactionRequestStore = (*data.MockTransactionRequestModel)(nil)
	_ LandParcelStore         = (*data.LandParcelModel)(nil)
	_ LandParcelStore         = (*data.MockLandParcelModel)(nil)
	_ CertificateStore        = (*data.CertificateModel)(nil)
	_ CertificateStore        = (*data.MockCertificateModel)(nil)
	_ DocumentStore           = (*data.DocumentModel)(nil)
	_ DocumentStore           = (*data.MockDocumentModel)(nil)
	_ NotificationStore       = (*data.NotificationModel)(nil)
	_ NotificationStore       = (*data.MockNotificationModel)(nil)
)
