package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/guregu/null"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/workflow"
)

const notificationPoolChannel = "notifications"

type NotificationService interface {
	// NotifyStatusChange tells the requester their request changed status.
	NotifyStatusChange(ctx context.Context, req workflow.TransactionRequest)
	// NotifyCertificateIssued tells the owner a new certificate covers their parcel.
	NotifyCertificateIssued(ctx context.Context, cert data.Certificate, req workflow.TransactionRequest)
	// ListInbox returns the actor's notifications, newest first.
	ListInbox(ctx context.Context, actor entities.Actor, unreadOnly bool, page entities.PageParams) ([]data.Notification, error)
	// MarkRead flags one of the actor's notifications as read.
	MarkRead(ctx context.Context, actor entities.Actor, id string) error
	// Shutdown drains the dispatch pool. Call on server teardown.
	Shutdown()
}

var _ NotificationService = (*notificationService)(nil)

type notificationService struct {
	store          NotificationStore
	pool           pond.Pool
	metricsService metrics.MetricsService
	appTracker     apptracker.AppTracker
}

func NewNotificationService(store NotificationStore, metricsService metrics.MetricsService, appTracker apptracker.AppTracker, workerCount int) (*notificationService, error) {
	if store == nil {
		return nil, errors.New("notification store cannot be nil")
	}
	if workerCount <= 0 {
		workerCount = 4
	}

	pool := pond.NewPool(workerCount)
	metricsService.RegisterPoolMetrics(notificationPoolChannel, pool)

	return &notificationService{
		store:          store,
		pool:           pool,
		metricsService: metricsService,
		appTracker:     appTracker,
	}, nil
}

func (s *notificationService) NotifyStatusChange(ctx context.Context, req workflow.TransactionRequest) {
	message := fmt.Sprintf("Your %s request %s for parcel %s is now %s.", req.Type, req.ID, req.LandParcelID, req.Status)
	if len(req.History) > 0 {
		if comment := req.History[len(req.History)-1].Comment; comment != "" {
			message = fmt.Sprintf("%s Comment: %s", message, comment)
		}
	}
	s.dispatch(data.Notification{
		ID:          uuid.NewString(),
		RecipientID: req.Requester.NationalID,
		RequestID:   null.StringFrom(req.ID),
		Kind:        data.NotificationKindStatusChange,
		Message:     message,
		CreatedAt:   time.Now(),
	})
}

func (s *notificationService) NotifyCertificateIssued(ctx context.Context, cert data.Certificate, req workflow.TransactionRequest) {
	s.dispatch(data.Notification{
		ID:          uuid.NewString(),
		RecipientID: cert.OwnerNationalID,
		RequestID:   null.StringFrom(req.ID),
		Kind:        data.NotificationKindCertificateIssued,
		Message:     fmt.Sprintf("Certificate %s was issued for parcel %s.", cert.CertificateNumber, cert.LandParcelID),
		CreatedAt:   time.Now(),
	})
}

// dispatch persists the notification on the worker pool. Delivery is
// best-effort: the originating request never fails because its notification
// could not be stored.
func (s *notificationService) dispatch(notification data.Notification) {
	s.pool.Go(func() {
		ctx := context.Background()
		if err := s.store.Insert(ctx, notification); err != nil {
			s.metricsService.IncNotificationFailures(notification.Kind)
			applog.Ctx(ctx).Errorf("dispatching %s notification to %s: %v", notification.Kind, notification.RecipientID, err)
			if s.appTracker != nil {
				s.appTracker.CaptureException(err)
			}
			return
		}
		s.metricsService.IncNotificationsDispatched(notification.Kind)
	})
}

func (s *notificationService) ListInbox(ctx context.Context, actor entities.Actor, unreadOnly bool, page entities.PageParams) ([]data.Notification, error) {
	notifications, err := s.store.ListByRecipient(ctx, actor.ID, unreadOnly, page)
	if err != nil {
		return nil, fmt.Errorf("listing notifications for %s: %w", actor.ID, err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor entities.Actor, id string) error {
	if err := s.store.MarkRead(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

func (s *notificationService) Shutdown() {
	s.pool.StopAndWait()
}
