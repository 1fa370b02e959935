package data

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null"

	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/utils"
)

// Notification kinds.
const (
	NotificationKindStatusChange      = "status_change"
	NotificationKindCertificateIssued = "certificate_issued"
)

type Notification struct {
	ID          string      `db:"id" json:"id"`
	RecipientID string      `db:"recipient_id" json:"recipientId"`
	RequestID   null.String `db:"request_id" json:"requestId,omitempty"`
	Kind        string      `db:"kind" json:"kind"`
	Message     string      `db:"message" json:"message"`
	Read        bool        `db:"read" json:"read"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

type NotificationModel struct {
	DB             db.ConnectionPool
	MetricsService metrics.MetricsService
}

func (m *NotificationModel) Insert(ctx context.Context, notification Notification) error {
	const query = `
		INSERT INTO notifications (id, recipient_id, request_id, kind, message, read, created_at)
		VALUES (:id, :recipient_id, :request_id, :kind, :message, :read, :created_at)`
	start := time.Now()
	_, err := m.DB.NamedExecContext(ctx, query, notification)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("Insert", "notifications", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("Insert", "notifications", utils.GetDBErrorType(err))
		return fmt.Errorf("inserting notification %s: %w", notification.ID, err)
	}
	m.MetricsService.IncDBQuery("Insert", "notifications")
	return nil
}

func (m *NotificationModel) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page entities.PageParams) ([]Notification, error) {
	page = page.Normalize()
	query := `SELECT * FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	var notifications []Notification
	start := time.Now()
	err := m.DB.SelectContext(ctx, &notifications, query, recipientID, page.Limit, page.Offset)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("ListByRecipient", "notifications", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("ListByRecipient", "notifications", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("listing notifications for recipient %s: %w", recipientID, err)
	}
	m.MetricsService.IncDBQuery("ListByRecipient", "notifications")
	return notifications, nil
}

// MarkRead flags a notification as read, scoped to the recipient so one user
// cannot touch another's inbox.
func (m *NotificationModel) MarkRead(ctx context.Context, id, recipientID string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`
	start := time.Now()
	result, err := m.DB.ExecContext(ctx, query, id, recipientID)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("MarkRead", "notifications", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("MarkRead", "notifications", utils.GetDBErrorType(err))
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected for notification %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	m.MetricsService.IncDBQuery("MarkRead", "notifications")
	return nil
}
