package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/utils"
)

// Parcel statuses. A retired parcel no longer exists as a legal unit; it was
// consumed by a split or merge.
const (
	ParcelStatusActive  = "active"
	ParcelStatusRetired = "retired"
)

type LandParcel struct {
	ID              string    `db:"id" json:"id"`
	OwnerNationalID string    `db:"owner_national_id" json:"ownerNationalId"`
	OwnerFullName   string    `db:"owner_full_name" json:"ownerFullName"`
	Area            float64   `db:"area" json:"area"`
	Purpose         string    `db:"purpose" json:"purpose"`
	Address         string    `db:"address" json:"address"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

type LandParcelModel struct {
	DB             db.ConnectionPool
	MetricsService metrics.MetricsService
}

func (m *LandParcelModel) GetByID(ctx context.Context, id string) (LandParcel, error) {
	const query = `SELECT * FROM land_parcels WHERE id = $1`
	var parcel LandParcel
	start := time.Now()
	err := m.DB.GetContext(ctx, &parcel, query, id)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("GetByID", "land_parcels", duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LandParcel{}, ErrRecordNotFound
		}
		m.MetricsService.IncDBQueryError("GetByID", "land_parcels", utils.GetDBErrorType(err))
		return LandParcel{}, fmt.Errorf("getting land parcel %s: %w", id, err)
	}
	m.MetricsService.IncDBQuery("GetByID", "land_parcels")
	return parcel, nil
}

func (m *LandParcelModel) ListByOwner(ctx context.Context, ownerNationalID string, page entities.PageParams) ([]LandParcel, error) {
	page = page.Normalize()
	const query = `
		SELECT * FROM land_parcels
		WHERE owner_national_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3`
	var parcels []LandParcel
	start := time.Now()
	err := m.DB.SelectContext(ctx, &parcels, query, ownerNationalID, page.Limit, page.Offset)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("ListByOwner", "land_parcels", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("ListByOwner", "land_parcels", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("listing land parcels for owner %s: %w", ownerNationalID, err)
	}
	m.MetricsService.IncDBQuery("ListByOwner", "land_parcels")
	return parcels, nil
}

// Insert registers a new parcel. sqlExec lets callers batch related inserts
// into one transaction (new parcels resulting from a split).
func (m *LandParcelModel) Insert(ctx context.Context, sqlExec db.SQLExecuter, parcel LandParcel) error {
	const query = `
		INSERT INTO land_parcels (id, owner_national_id, owner_full_name, area, purpose, address, status, created_at, updated_at)
		VALUES (:id, :owner_national_id, :owner_full_name, :area, :purpose, :address, :status, :created_at, :updated_at)`
	start := time.Now()
	_, err := sqlExec.NamedExecContext(ctx, query, parcel)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("Insert", "land_parcels", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("Insert", "land_parcels", utils.GetDBErrorType(err))
		return fmt.Errorf("inserting land parcel %s: %w", parcel.ID, err)
	}
	m.MetricsService.IncDBQuery("Insert", "land_parcels")
	return nil
}

// UpdateOwner records an ownership change resulting from a completed transfer.
func (m *LandParcelModel) UpdateOwner(ctx context.Context, sqlExec db.SQLExecuter, parcelID, ownerNationalID, ownerFullName string, now time.Time) error {
	const query = `
		UPDATE land_parcels
		SET owner_national_id = $1, owner_full_name = $2, updated_at = $3
		WHERE id = $4`
	return m.exec(ctx, sqlExec, "UpdateOwner", query, ownerNationalID, ownerFullName, now, parcelID)
}

// UpdatePurpose records a completed land-use change.
func (m *LandParcelModel) UpdatePurpose(ctx context.Context, sqlExec db.SQLExecuter, parcelID, purpose string, now time.Time) error {
	const query = `UPDATE land_parcels SET purpose = $1, updated_at = $2 WHERE id = $3`
	return m.exec(ctx, sqlExec, "UpdatePurpose", query, purpose, now, parcelID)
}

// Retire marks a parcel as consumed by a split or merge.
func (m *LandParcelModel) Retire(ctx context.Context, sqlExec db.SQLExecuter, parcelID string, now time.Time) error {
	const query = `UPDATE land_parcels SET status = $1, updated_at = $2 WHERE id = $3`
	return m.exec(ctx, sqlExec, "Retire", query, ParcelStatusRetired, now, parcelID)
}

func (m *LandParcelModel) exec(ctx context.Context, sqlExec db.SQLExecuter, queryType, query string, args ...interface{}) error {
	start := time.Now()
	result, err := sqlExec.ExecContext(ctx, query, args...)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration(queryType, "land_parcels", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError(queryType, "land_parcels", utils.GetDBErrorType(err))
		return fmt.Errorf("%s on land_parcels: %w", queryType, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected for %s on land_parcels: %w", queryType, err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	m.MetricsService.IncDBQuery(queryType, "land_parcels")
	return nil
}
