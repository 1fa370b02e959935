package data

import (
	"errors"

	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/metrics"
)

type Models struct {
	TransactionRequests *TransactionRequestModel
	LandParcels         *LandParcelModel
	Certificates        *CertificateModel
	Documents           *DocumentModel
	Notifications       *NotificationModel
}

func NewModels(dbConnectionPool db.ConnectionPool, metricsService metrics.MetricsService) (*Models, error) {
	if dbConnectionPool == nil {
		return nil, errors.New("ConnectionPool must be initialized")
	}

	return &Models{
		TransactionRequests: &TransactionRequestModel{DB: dbConnectionPool, MetricsService: metricsService},
		LandParcels:         &LandParcelModel{DB: dbConnectionPool, MetricsService: metricsService},
		Certificates:        &CertificateModel{DB: dbConnectionPool, MetricsService: metricsService},
		Documents:           &DocumentModel{DB: dbConnectionPool, MetricsService: metricsService},
		Notifications:       &NotificationModel{DB: dbConnectionPool, MetricsService: metricsService},
	}, nil
}
