package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/null"

	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/utils"
)

// Certificate statuses. A certificate is revoked when the parcel it covers
// changes hands or shape; only one active certificate exists per parcel.
const (
	CertificateStatusActive  = "active"
	CertificateStatusRevoked = "revoked"
)

type Certificate struct {
	ID                string      `db:"id" json:"id"`
	CertificateNumber string      `db:"certificate_number" json:"certificateNumber"`
	LandParcelID      string      `db:"land_parcel_id" json:"landParcelId"`
	RequestID         null.String `db:"request_id" json:"requestId,omitempty"`
	OwnerNationalID   string      `db:"owner_national_id" json:"ownerNationalId"`
	Status            string      `db:"status" json:"status"`
	IssuedAt          time.Time   `db:"issued_at" json:"issuedAt"`
	CreatedAt         time.Time   `db:"created_at" json:"createdAt"`
}

type CertificateModel struct {
	DB             db.ConnectionPool
	MetricsService metrics.MetricsService
}

func (m *CertificateModel) Insert(ctx context.Context, sqlExec db.SQLExecuter, cert Certificate) error {
	const query = `
		INSERT INTO certificates (id, certificate_number, land_parcel_id, request_id, owner_national_id, status, issued_at, created_at)
		VALUES (:id, :certificate_number, :land_parcel_id, :request_id, :owner_national_id, :status, :issued_at, :created_at)`
	start := time.Now()
	_, err := sqlExec.NamedExecContext(ctx, query, cert)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("Insert", "certificates", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("Insert", "certificates", utils.GetDBErrorType(err))
		return fmt.Errorf("inserting certificate %s: %w", cert.ID, err)
	}
	m.MetricsService.IncDBQuery("Insert", "certificates")
	return nil
}

func (m *CertificateModel) GetByID(ctx context.Context, id string) (Certificate, error) {
	const query = `SELECT * FROM certificates WHERE id = $1`
	var cert Certificate
	start := time.Now()
	err := m.DB.GetContext(ctx, &cert, query, id)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("GetByID", "certificates", duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Certificate{}, ErrRecordNotFound
		}
		m.MetricsService.IncDBQueryError("GetByID", "certificates", utils.GetDBErrorType(err))
		return Certificate{}, fmt.Errorf("getting certificate %s: %w", id, err)
	}
	m.MetricsService.IncDBQuery("GetByID", "certificates")
	return cert, nil
}

// GetActiveByParcel returns the one active certificate covering a parcel.
func (m *CertificateModel) GetActiveByParcel(ctx context.Context, parcelID string) (Certificate, error) {
	const query = `SELECT * FROM certificates WHERE land_parcel_id = $1 AND status = $2`
	var cert Certificate
	start := time.Now()
	err := m.DB.GetContext(ctx, &cert, query, parcelID, CertificateStatusActive)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("GetActiveByParcel", "certificates", duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Certificate{}, ErrRecordNotFound
		}
		m.MetricsService.IncDBQueryError("GetActiveByParcel", "certificates", utils.GetDBErrorType(err))
		return Certificate{}, fmt.Errorf("getting active certificate for parcel %s: %w", parcelID, err)
	}
	m.MetricsService.IncDBQuery("GetActiveByParcel", "certificates")
	return cert, nil
}

func (m *CertificateModel) ListByOwner(ctx context.Context, ownerNationalID string) ([]Certificate, error) {
	const query = `SELECT * FROM certificates WHERE owner_national_id = $1 ORDER BY issued_at DESC`
	var certs []Certificate
	start := time.Now()
	err := m.DB.SelectContext(ctx, &certs, query, ownerNationalID)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("ListByOwner", "certificates", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("ListByOwner", "certificates", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("listing certificates for owner %s: %w", ownerNationalID, err)
	}
	m.MetricsService.IncDBQuery("ListByOwner", "certificates")
	return certs, nil
}

// RevokeActiveByParcel revokes whatever active certificate covers the parcel.
// Revoking a parcel with no active certificate is not an error; a first
// issuance has nothing to revoke.
func (m *CertificateModel) RevokeActiveByParcel(ctx context.Context, sqlExec db.SQLExecuter, parcelID string) error {
	const query = `UPDATE certificates SET status = $1 WHERE land_parcel_id = $2 AND status = $3`
	start := time.Now()
	_, err := sqlExec.ExecContext(ctx, query, CertificateStatusRevoked, parcelID, CertificateStatusActive)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("RevokeActiveByParcel", "certificates", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("RevokeActiveByParcel", "certificates", utils.GetDBErrorType(err))
		return fmt.Errorf("revoking active certificate for parcel %s: %w", parcelID, err)
	}
	m.MetricsService.IncDBQuery("RevokeActiveByParcel", "certificates")
	return nil
}
