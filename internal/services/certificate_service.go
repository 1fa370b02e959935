package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/workflow"
)

type CertificateService interface {
	// IssueCertificates finalizes an approved request: it completes the
	// workflow, applies the request's effect on the land registry, and issues
	// the resulting certificate(s).
	IssueCertificates(ctx context.Context, requestID string, actor entities.Actor) ([]data.Certificate, error)
	// GetCertificate returns one certificate.
	GetCertificate(ctx context.Context, id string) (data.Certificate, error)
	// ListOwnerCertificates returns all certificates held by an owner.
	ListOwnerCertificates(ctx context.Context, ownerNationalID string) ([]data.Certificate, error)
}

var _ CertificateService = (*certificateService)(nil)

type certificateService struct {
	engine         *workflow.Engine
	dbPool         db.ConnectionPool
	requests       TransactionRequestStore
	parcels        LandParcelStore
	certificates   CertificateStore
	notifications  NotificationService
	metricsService metrics.MetricsService
	appTracker     apptracker.AppTracker
}

func NewCertificateService(engine *workflow.Engine, dbPool db.ConnectionPool, requests TransactionRequestStore, parcels LandParcelStore, certificates CertificateStore, notifications NotificationService, metricsService metrics.MetricsService, appTracker apptracker.AppTracker) (*certificateService, error) {
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if dbPool == nil {
		return nil, errors.New("db connection pool cannot be nil")
	}
	if requests == nil || parcels == nil || certificates == nil {
		return nil, errors.New("stores cannot be nil")
	}

	return &certificateService{
		engine:         engine,
		dbPool:         dbPool,
		requests:       requests,
		parcels:        parcels,
		certificates:   certificates,
		notifications:  notifications,
		metricsService: metricsService,
		appTracker:     appTracker,
	}, nil
}

func (s *certificateService) IssueCertificates(ctx context.Context, requestID string, actor entities.Actor) ([]data.Certificate, error) {
	if actor.Org != entities.OrgAuthority {
		return nil, &workflow.UnauthorizedError{Org: actor.Org, Action: workflow.ActionComplete, Reason: "only the land-registry authority issues certificates"}
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("getting request %s: %w", requestID, err)
	}

	now := time.Now()
	completed, err := s.engine.Complete(req, now)
	if err != nil {
		return nil, err
	}

	// Claiming the COMPLETED transition first makes issuance race-safe: a
	// concurrent issuer loses on the revision check and never reaches the
	// registry mutation below.
	persisted, err := s.requests.Update(ctx, completed, req.Revision)
	if err != nil {
		return nil, fmt.Errorf("completing request %s: %w", requestID, err)
	}

	certs, err := db.RunInTransactionWithResult(ctx, s.dbPool, nil, func(dbTx db.Transaction) ([]data.Certificate, error) {
		return s.applyRegistryEffect(ctx, dbTx, persisted, now)
	})
	if err != nil {
		// The request is already COMPLETED; the registry mutation must not
		// be silently lost.
		if s.appTracker != nil {
			s.appTracker.CaptureException(fmt.Errorf("registry mutation failed for completed request %s: %w", requestID, err))
		}
		return nil, fmt.Errorf("applying registry effect for request %s: %w", requestID, err)
	}

	s.metricsService.IncCertificatesIssued(string(persisted.Type))
	s.metricsService.ObserveRequestResolutionDuration(string(persisted.Type), persisted.UpdatedAt.Sub(persisted.CreatedAt).Seconds())
	if s.notifications != nil {
		s.notifications.NotifyStatusChange(ctx, persisted)
		for _, cert := range certs {
			s.notifications.NotifyCertificateIssued(ctx, cert, persisted)
		}
	}
	applog.Ctx(ctx).Infof("request %s completed, issued %d certificate(s)", requestID, len(certs))
	return certs, nil
}

// applyRegistryEffect mutates parcels and certificates according to the
// request type. It runs inside one database transaction.
func (s *certificateService) applyRegistryEffect(ctx context.Context, dbTx db.Transaction, req workflow.TransactionRequest, now time.Time) ([]data.Certificate, error) {
	switch req.Type {
	case workflow.TypeTransfer:
		newOwner := req.Payload.Transfer.NewOwner
		if err := s.parcels.UpdateOwner(ctx, dbTx, req.LandParcelID, newOwner.NationalID, newOwner.FullName, now); err != nil {
			return nil, err
		}
		return s.reissueForParcel(ctx, dbTx, req, req.LandParcelID, newOwner.NationalID, now)

	case workflow.TypeChangePurpose:
		if err := s.parcels.UpdatePurpose(ctx, dbTx, req.LandParcelID, req.Payload.ChangePurpose.NewPurpose, now); err != nil {
			return nil, err
		}
		return s.reissueForParcel(ctx, dbTx, req, req.LandParcelID, req.Requester.NationalID, now)

	case workflow.TypeReissue:
		return s.reissueForParcel(ctx, dbTx, req, req.LandParcelID, req.Requester.NationalID, now)

	case workflow.TypeSplit:
		if err := s.parcels.Retire(ctx, dbTx, req.LandParcelID, now); err != nil {
			return nil, err
		}
		if err := s.certificates.RevokeActiveByParcel(ctx, dbTx, req.LandParcelID); err != nil {
			return nil, err
		}
		certs := make([]data.Certificate, 0, len(req.Payload.Split.NewParcels))
		for i, newParcel := range req.Payload.Split.NewParcels {
			parcel := data.LandParcel{
				ID:              fmt.Sprintf("%s-S%d", req.LandParcelID, i+1),
				OwnerNationalID: req.Requester.NationalID,
				OwnerFullName:   req.Requester.FullName,
				Area:            newParcel.Area,
				Purpose:         newParcel.Purpose,
				Address:         newParcel.Description,
				Status:          data.ParcelStatusActive,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := s.parcels.Insert(ctx, dbTx, parcel); err != nil {
				return nil, err
			}
			cert := s.newCertificate(req, parcel.ID, req.Requester.NationalID, now)
			if err := s.certificates.Insert(ctx, dbTx, cert); err != nil {
				return nil, err
			}
			certs = append(certs, cert)
		}
		return certs, nil

	case workflow.TypeMerge:
		for _, targetID := range req.Payload.Merge.TargetParcelIDs {
			if err := s.parcels.Retire(ctx, dbTx, targetID, now); err != nil {
				return nil, err
			}
			if err := s.certificates.RevokeActiveByParcel(ctx, dbTx, targetID); err != nil {
				return nil, err
			}
		}
		return s.reissueForParcel(ctx, dbTx, req, req.LandParcelID, req.Requester.NationalID, now)

	default:
		return nil, fmt.Errorf("request %s: %w: %q", req.ID, workflow.ErrUnknownRequestType, req.Type)
	}
}

// reissueForParcel revokes whatever certificate currently covers the parcel
// and issues a fresh one.
func (s *certificateService) reissueForParcel(ctx context.Context, dbTx db.Transaction, req workflow.TransactionRequest, parcelID, ownerNationalID string, now time.Time) ([]data.Certificate, error) {
	if err := s.certificates.RevokeActiveByParcel(ctx, dbTx, parcelID); err != nil {
		return nil, err
	}
	cert := s.newCertificate(req, parcelID, ownerNationalID, now)
	if err := s.certificates.Insert(ctx, dbTx, cert); err != nil {
		return nil, err
	}
	return []data.Certificate{cert}, nil
}

func (s *certificateService) newCertificate(req workflow.TransactionRequest, parcelID, ownerNationalID string, now time.Time) data.Certificate {
	id := uuid.NewString()
	return data.Certificate{
		ID:                id,
		CertificateNumber: fmt.Sprintf("LRC-%d-%s", now.Year(), strings.ToUpper(id[:8])),
		LandParcelID:      parcelID,
		RequestID:         null.StringFrom(req.ID),
		OwnerNationalID:   ownerNationalID,
		Status:            data.CertificateStatusActive,
		IssuedAt:          now,
		CreatedAt:         now,
	}
}

func (s *certificateService) GetCertificate(ctx context.Context, id string) (data.Certificate, error) {
	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return data.Certificate{}, fmt.Errorf("getting certificate %s: %w", id, err)
	}
	return cert, nil
}

func (s *certificateService) ListOwnerCertificates(ctx context.Context, ownerNationalID string) ([]data.Certificate, error) {
	certs, err := s.certificates.ListByOwner(ctx, ownerNationalID)
	if err != nil {
		return nil, fmt.Errorf("listing certificates for owner %s: %w", ownerNationalID, err)
	}
	return certs, nil
}
