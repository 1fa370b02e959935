package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/workflow"
)

type ParcelService interface {
	// RegisterParcel records a new parcel in the registry. Reserved for the
	// land-registry authority.
	RegisterParcel(ctx context.Context, parcel data.LandParcel, actor entities.Actor) (data.LandParcel, error)
	GetParcel(ctx context.Context, id string) (data.LandParcel, error)
	// ListOwnerParcels lists parcels held by an owner. Citizens are always
	// scoped to themselves.
	ListOwnerParcels(ctx context.Context, ownerNationalID string, page entities.PageParams, actor entities.Actor) ([]data.LandParcel, error)
}

var _ ParcelService = (*parcelService)(nil)

type parcelService struct {
	dbPool  db.ConnectionPool
	parcels LandParcelStore
}

func NewParcelService(dbPool db.ConnectionPool, parcels LandParcelStore) (*parcelService, error) {
	if dbPool == nil {
		return nil, errors.New("db connection pool cannot be nil")
	}
	if parcels == nil {
		return nil, errors.New("land parcel store cannot be nil")
	}
	return &parcelService{dbPool: dbPool, parcels: parcels}, nil
}

func (s *parcelService) RegisterParcel(ctx context.Context, parcel data.LandParcel, actor entities.Actor) (data.LandParcel, error) {
	if actor.Org != entities.OrgAuthority {
		return data.LandParcel{}, &workflow.UnauthorizedError{Org: actor.Org, Reason: "only the land-registry authority registers parcels"}
	}

	parcel.Status = data.ParcelStatusActive
	parcel.CreatedAt = time.Now()
	parcel.UpdatedAt = parcel.CreatedAt
	if err := s.parcels.Insert(ctx, s.dbPool, parcel); err != nil {
		return data.LandParcel{}, fmt.Errorf("registering parcel %s: %w", parcel.ID, err)
	}
	return parcel, nil
}

func (s *parcelService) GetParcel(ctx context.Context, id string) (data.LandParcel, error) {
	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return data.LandParcel{}, fmt.Errorf("getting parcel %s: %w", id, err)
	}
	return parcel, nil
}

func (s *parcelService) ListOwnerParcels(ctx context.Context, ownerNationalID string, page entities.PageParams, actor entities.Actor) ([]data.LandParcel, error) {
	if actor.Org == entities.OrgCitizen {
		if ownerNationalID != "" && ownerNationalID != actor.ID {
			return nil, &workflow.UnauthorizedError{Org: actor.Org, Reason: "citizens may only list their own parcels"}
		}
		ownerNationalID = actor.ID
	}
	parcels, err := s.parcels.ListByOwner(ctx, ownerNationalID, page)
	if err != nil {
		return nil, fmt.Errorf("listing parcels for owner %s: %w", ownerNationalID, err)
	}
	return parcels, nil
}
