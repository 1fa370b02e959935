package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/utils"
	"github.com/landreg/registry-backend/internal/workflow"
)

type TransactionRequestModel struct {
	DB             db.ConnectionPool
	MetricsService metrics.MetricsService
}

// ListRequestsFilter narrows List results. Zero-valued fields are ignored.
type ListRequestsFilter struct {
	Status              workflow.Status
	Type                workflow.RequestType
	RequesterNationalID string
	LandParcelID        string
}

type transactionRequestRow struct {
	ID           string         `db:"id"`
	Type         string         `db:"type"`
	LandParcelID string         `db:"land_parcel_id"`
	Requester    []byte         `db:"requester"`
	Payload      []byte         `db:"payload"`
	Documents    pq.StringArray `db:"documents"`
	Priority     string         `db:"priority"`
	Status       string         `db:"status"`
	Revision     int64          `db:"revision"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type historyRow struct {
	RequestID string    `db:"request_id"`
	ActorID   string    `db:"actor_id"`
	Org       string    `db:"org"`
	Action    string    `db:"action"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

func (r transactionRequestRow) toRequest(history []workflow.HistoryEntry) (workflow.TransactionRequest, error) {
	var requester workflow.Party
	if err := json.Unmarshal(r.Requester, &requester); err != nil {
		return workflow.TransactionRequest{}, fmt.Errorf("unmarshalling requester for request %s: %w", r.ID, err)
	}
	var payload workflow.Payload
	if err := json.Unmarshal(r.Payload, &payload); err != nil {
		return workflow.TransactionRequest{}, fmt.Errorf("unmarshalling payload for request %s: %w", r.ID, err)
	}

	return workflow.TransactionRequest{
		ID:           r.ID,
		Type:         workflow.RequestType(r.Type),
		LandParcelID: r.LandParcelID,
		Requester:    requester,
		Payload:      payload,
		Documents:    r.Documents,
		Priority:     workflow.Priority(r.Priority),
		Status:       workflow.Status(r.Status),
		History:      history,
		Revision:     r.Revision,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func toRequestRow(req workflow.TransactionRequest) (transactionRequestRow, error) {
	requesterJSON, err := json.Marshal(req.Requester)
	if err != nil {
		return transactionRequestRow{}, fmt.Errorf("marshalling requester for request %s: %w", req.ID, err)
	}
	payloadJSON, err := json.Marshal(req.Payload)
	if err != nil {
		return transactionRequestRow{}, fmt.Errorf("marshalling payload for request %s: %w", req.ID, err)
	}

	return transactionRequestRow{
		ID:           req.ID,
		Type:         string(req.Type),
		LandParcelID: req.LandParcelID,
		Requester:    requesterJSON,
		Payload:      payloadJSON,
		Documents:    pq.StringArray(req.Documents),
		Priority:     string(req.Priority),
		Status:       string(req.Status),
		Revision:     req.Revision,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
	}, nil
}

const insertHistoryQuery = `
	INSERT INTO transaction_request_history (request_id, actor_id, org, action, comment, created_at)
	VALUES (:request_id, :actor_id, :org, :action, :comment, :created_at)`

// Insert persists a freshly created request together with its creation history
// entry, atomically. The stored revision starts at 1.
func (m *TransactionRequestModel) Insert(ctx context.Context, req workflow.TransactionRequest) (workflow.TransactionRequest, error) {
	row, err := toRequestRow(req)
	if err != nil {
		return workflow.TransactionRequest{}, err
	}
	row.Revision = 1

	start := time.Now()
	err = db.RunInTransaction(ctx, m.DB, nil, func(dbTx db.Transaction) error {
		const query = `
			INSERT INTO transaction_requests (id, type, land_parcel_id, requester, payload, documents, priority, status, revision, created_at, updated_at)
			VALUES (:id, :type, :land_parcel_id, :requester, :payload, :documents, :priority, :status, :revision, :created_at, :updated_at)`
		if _, insertErr := dbTx.NamedExecContext(ctx, query, row); insertErr != nil {
			return fmt.Errorf("inserting transaction request %s: %w", req.ID, insertErr)
		}

		for _, entry := range req.History {
			if _, insertErr := dbTx.NamedExecContext(ctx, insertHistoryQuery, historyRow{
				RequestID: req.ID,
				ActorID:   entry.ActorID,
				Org:       string(entry.Org),
				Action:    string(entry.Action),
				Comment:   entry.Comment,
				CreatedAt: entry.Timestamp,
			}); insertErr != nil {
				return fmt.Errorf("inserting history entry for request %s: %w", req.ID, insertErr)
			}
		}
		return nil
	})
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("Insert", "transaction_requests", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("Insert", "transaction_requests", utils.GetDBErrorType(err))
		return workflow.TransactionRequest{}, err
	}
	m.MetricsService.IncDBQuery("Insert", "transaction_requests")

	req.Revision = 1
	return req, nil
}

// GetByID returns the request with its full history, oldest entry first.
func (m *TransactionRequestModel) GetByID(ctx context.Context, id string) (workflow.TransactionRequest, error) {
	const query = `SELECT * FROM transaction_requests WHERE id = $1`
	var row transactionRequestRow
	start := time.Now()
	err := m.DB.GetContext(ctx, &row, query, id)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("GetByID", "transaction_requests", duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workflow.TransactionRequest{}, ErrRecordNotFound
		}
		m.MetricsService.IncDBQueryError("GetByID", "transaction_requests", utils.GetDBErrorType(err))
		return workflow.TransactionRequest{}, fmt.Errorf("getting transaction request %s: %w", id, err)
	}
	m.MetricsService.IncDBQuery("GetByID", "transaction_requests")

	history, err := m.getHistory(ctx, id)
	if err != nil {
		return workflow.TransactionRequest{}, err
	}
	return row.toRequest(history)
}

func (m *TransactionRequestModel) getHistory(ctx context.Context, requestID string) ([]workflow.HistoryEntry, error) {
	const query = `
		SELECT request_id, actor_id, org, action, comment, created_at
		FROM transaction_request_history
		WHERE request_id = $1
		ORDER BY id ASC`
	var rows []historyRow
	start := time.Now()
	err := m.DB.SelectContext(ctx, &rows, query, requestID)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("getHistory", "transaction_request_history", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("getHistory", "transaction_request_history", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("getting history for request %s: %w", requestID, err)
	}
	m.MetricsService.IncDBQuery("getHistory", "transaction_request_history")

	history := make([]workflow.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		history = append(history, workflow.HistoryEntry{
			ActorID:   r.ActorID,
			Org:       entities.Organization(r.Org),
			Action:    workflow.Action(r.Action),
			Comment:   r.Comment,
			Timestamp: r.CreatedAt,
		})
	}
	return history, nil
}

// List returns matching requests ordered by creation time, newest first.
// Histories are not hydrated; use GetByID for the full audit trail.
func (m *TransactionRequestModel) List(ctx context.Context, filter ListRequestsFilter, page entities.PageParams) ([]workflow.TransactionRequest, error) {
	page = page.Normalize()

	query := `SELECT * FROM transaction_requests WHERE 1=1`
	var args []interface{}
	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}
	addFilter("status", string(filter.Status))
	addFilter("type", string(filter.Type))
	addFilter("requester->>'nationalId'", filter.RequesterNationalID)
	addFilter("land_parcel_id", filter.LandParcelID)

	args = append(args, page.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, page.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var rows []transactionRequestRow
	start := time.Now()
	err := m.DB.SelectContext(ctx, &rows, query, args...)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("List", "transaction_requests", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("List", "transaction_requests", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("listing transaction requests: %w", err)
	}
	m.MetricsService.IncDBQuery("List", "transaction_requests")

	requests := make([]workflow.TransactionRequest, 0, len(rows))
	for _, row := range rows {
		req, convErr := row.toRequest(nil)
		if convErr != nil {
			return nil, convErr
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Update persists the outcome of one workflow action. It expects req to carry
// exactly one history entry that is not yet stored (the last one) and the
// caller's snapshot revision in expectedRevision. If another writer got there
// first the update matches no row and ErrConflict is returned.
func (m *TransactionRequestModel) Update(ctx context.Context, req workflow.TransactionRequest, expectedRevision int64) (workflow.TransactionRequest, error) {
	if len(req.History) == 0 {
		return workflow.TransactionRequest{}, fmt.Errorf("request %s has no history to persist", req.ID)
	}
	row, err := toRequestRow(req)
	if err != nil {
		return workflow.TransactionRequest{}, err
	}

	start := time.Now()
	err = db.RunInTransaction(ctx, m.DB, nil, func(dbTx db.Transaction) error {
		const query = `
			UPDATE transaction_requests
			SET status = $1, payload = $2, priority = $3, revision = revision + 1, updated_at = $4
			WHERE id = $5 AND revision = $6`
		result, updateErr := dbTx.ExecContext(ctx, query, row.Status, row.Payload, row.Priority, row.UpdatedAt, row.ID, expectedRevision)
		if updateErr != nil {
			return fmt.Errorf("updating transaction request %s: %w", req.ID, updateErr)
		}
		rowsAffected, updateErr := result.RowsAffected()
		if updateErr != nil {
			return fmt.Errorf("getting rows affected for request %s: %w", req.ID, updateErr)
		}
		if rowsAffected == 0 {
			var exists bool
			if existsErr := dbTx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM transaction_requests WHERE id = $1)`, req.ID); existsErr != nil {
				return fmt.Errorf("checking existence of request %s: %w", req.ID, existsErr)
			}
			if !exists {
				return ErrRecordNotFound
			}
			return ErrConflict
		}

		last := req.History[len(req.History)-1]
		if _, insertErr := dbTx.NamedExecContext(ctx, insertHistoryQuery, historyRow{
			RequestID: req.ID,
			ActorID:   last.ActorID,
			Org:       string(last.Org),
			Action:    string(last.Action),
			Comment:   last.Comment,
			CreatedAt: last.Timestamp,
		}); insertErr != nil {
			return fmt.Errorf("inserting history entry for request %s: %w", req.ID, insertErr)
		}
		return nil
	})
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("Update", "transaction_requests", duration)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			m.MetricsService.IncOptimisticLockConflict("transaction_requests")
			return workflow.TransactionRequest{}, ErrConflict
		}
		if errors.Is(err, ErrRecordNotFound) {
			return workflow.TransactionRequest{}, ErrRecordNotFound
		}
		m.MetricsService.IncDBQueryError("Update", "transaction_requests", utils.GetDBErrorType(err))
		return workflow.TransactionRequest{}, err
	}
	m.MetricsService.IncDBQuery("Update", "transaction_requests")

	req.Revision = expectedRevision + 1
	return req, nil
}

// CountByStatus returns how many requests sit in each status.
func (m *TransactionRequestModel) CountByStatus(ctx context.Context) (map[workflow.Status]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM transaction_requests GROUP BY status`
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	start := time.Now()
	err := m.DB.SelectContext(ctx, &rows, query)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("CountByStatus", "transaction_requests", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("CountByStatus", "transaction_requests", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("counting transaction requests by status: %w", err)
	}
	m.MetricsService.IncDBQuery("CountByStatus", "transaction_requests")

	counts := make(map[workflow.Status]int, len(rows))
	for _, r := range rows {
		counts[workflow.Status(r.Status)] = r.Count
	}
	return counts, nil
}
