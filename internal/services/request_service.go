package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/workflow"
)

// maxActionAttempts bounds re-fetch/re-apply cycles when concurrent writers
// race on the same request.
const maxActionAttempts = 3

type RequestService interface {
	// CreateRequest files a new transaction request on behalf of a citizen.
	CreateRequest(ctx context.Context, input workflow.CreateInput, actor entities.Actor) (workflow.TransactionRequest, error)
	// GetRequest returns one request with its full history.
	GetRequest(ctx context.Context, id string, actor entities.Actor) (workflow.TransactionRequest, error)
	// ListRequests returns requests matching the filter. Citizens only ever see their own.
	ListRequests(ctx context.Context, filter data.ListRequestsFilter, page entities.PageParams, actor entities.Actor) ([]workflow.TransactionRequest, error)
	// PerformAction applies one workflow action, retrying on concurrent-writer conflicts.
	PerformAction(ctx context.Context, id string, actor entities.Actor, action workflow.Action, comment string) (workflow.TransactionRequest, error)
	// RefreshOpenRequestsMetric republishes the per-status open request gauge.
	RefreshOpenRequestsMetric(ctx context.Context) error
}

var _ RequestService = (*requestService)(nil)

type requestService struct {
	engine         *workflow.Engine
	requests       TransactionRequestStore
	documents      DocumentStore
	notifications  NotificationService
	metricsService metrics.MetricsService
}

func NewRequestService(engine *workflow.Engine, requests TransactionRequestStore, documents DocumentStore, notifications NotificationService, metricsService metrics.MetricsService) (*requestService, error) {
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if requests == nil {
		return nil, errors.New("transaction request store cannot be nil")
	}
	if documents == nil {
		return nil, errors.New("document store cannot be nil")
	}

	return &requestService{
		engine:         engine,
		requests:       requests,
		documents:      documents,
		notifications:  notifications,
		metricsService: metricsService,
	}, nil
}

func (s *requestService) CreateRequest(ctx context.Context, input workflow.CreateInput, actor entities.Actor) (workflow.TransactionRequest, error) {
	req, err := s.engine.CreateRequest(input, actor, time.Now())
	if err != nil {
		var vErr *workflow.ValidationError
		if errors.As(err, &vErr) {
			s.metricsService.IncValidationFailure(string(input.Type))
		}
		return workflow.TransactionRequest{}, err
	}

	// Every referenced document must already be uploaded.
	missing, err := s.documents.MissingIDs(ctx, req.Documents)
	if err != nil {
		return workflow.TransactionRequest{}, fmt.Errorf("checking documents for new request: %w", err)
	}
	if len(missing) > 0 {
		s.metricsService.IncValidationFailure(string(input.Type))
		return workflow.TransactionRequest{}, &workflow.ValidationError{Fields: map[string]interface{}{
			"documents": fmt.Sprintf("Unknown document(s): %v", missing),
		}}
	}

	persisted, err := s.requests.Insert(ctx, req)
	if err != nil {
		return workflow.TransactionRequest{}, fmt.Errorf("persisting request %s: %w", req.ID, err)
	}

	s.metricsService.IncWorkflowTransition(string(persisted.Type), string(workflow.ActionCreate), string(persisted.Status))
	if s.notifications != nil {
		s.notifications.NotifyStatusChange(ctx, persisted)
	}
	applog.Ctx(ctx).Infof("created %s request %s for parcel %s", persisted.Type, persisted.ID, persisted.LandParcelID)
	return persisted, nil
}

func (s *requestService) GetRequest(ctx context.Context, id string, actor entities.Actor) (workflow.TransactionRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return workflow.TransactionRequest{}, fmt.Errorf("getting request %s: %w", id, err)
	}
	if actor.Org == entities.OrgCitizen && req.Requester.NationalID != actor.ID {
		return workflow.TransactionRequest{}, &workflow.UnauthorizedError{Org: actor.Org, Reason: "citizens may only view their own requests"}
	}
	return req, nil
}

func (s *requestService) ListRequests(ctx context.Context, filter data.ListRequestsFilter, page entities.PageParams, actor entities.Actor) ([]workflow.TransactionRequest, error) {
	if actor.Org == entities.OrgCitizen {
		filter.RequesterNationalID = actor.ID
	}
	requests, err := s.requests.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	return requests, nil
}

func (s *requestService) PerformAction(ctx context.Context, id string, actor entities.Actor, action workflow.Action, comment string) (workflow.TransactionRequest, error) {
	updated, err := retry.DoWithData(
		func() (workflow.TransactionRequest, error) {
			current, getErr := s.requests.GetByID(ctx, id)
			if getErr != nil {
				return workflow.TransactionRequest{}, getErr
			}

			next, applyErr := s.engine.ApplyAction(current, actor, action, comment, time.Now())
			if applyErr != nil {
				return workflow.TransactionRequest{}, applyErr
			}

			return s.requests.Update(ctx, next, current.Revision)
		},
		retry.Context(ctx),
		retry.Attempts(maxActionAttempts),
		retry.RetryIf(func(err error) bool { return errors.Is(err, data.ErrConflict) }),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		s.observeActionFailure(actor, action, err)
		return workflow.TransactionRequest{}, err
	}

	s.metricsService.IncWorkflowTransition(string(updated.Type), string(action), string(updated.Status))
	if updated.Status.IsTerminal() {
		s.metricsService.ObserveRequestResolutionDuration(string(updated.Type), updated.UpdatedAt.Sub(updated.CreatedAt).Seconds())
	}
	if s.notifications != nil {
		s.notifications.NotifyStatusChange(ctx, updated)
	}
	applog.Ctx(ctx).Infof("request %s: %s applied %s, now %s", updated.ID, actor.Org, action, updated.Status)
	return updated, nil
}

func (s *requestService) observeActionFailure(actor entities.Actor, action workflow.Action, err error) {
	var uErr *workflow.UnauthorizedError
	switch {
	case errors.As(err, &uErr):
		s.metricsService.IncWorkflowTransitionDenied(string(actor.Org), string(action), "unauthorized")
	case errors.Is(err, workflow.ErrMissingComment):
		s.metricsService.IncWorkflowTransitionDenied(string(actor.Org), string(action), "missing_comment")
	case errors.Is(err, workflow.ErrIllegalTransition):
		s.metricsService.IncWorkflowTransitionDenied(string(actor.Org), string(action), "illegal_transition")
	}
}

func (s *requestService) RefreshOpenRequestsMetric(ctx context.Context) error {
	counts, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("refreshing open request counts: %w", err)
	}
	for _, status := range []workflow.Status{workflow.StatusPending, workflow.StatusUnderReview, workflow.StatusForwarded, workflow.StatusApproved} {
		s.metricsService.SetOpenRequests(string(status), counts[status])
	}
	return nil
}
