package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/null"
	"github.com/lib/pq"

	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/utils"
)

type Document struct {
	ID          string      `db:"id" json:"id"`
	FileName    string      `db:"file_name" json:"fileName"`
	ContentHash string      `db:"content_hash" json:"contentHash"`
	UploadedBy  string      `db:"uploaded_by" json:"uploadedBy"`
	Verified    bool        `db:"verified" json:"verified"`
	VerifiedBy  null.String `db:"verified_by" json:"verifiedBy,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

type DocumentModel struct {
	DB             db.ConnectionPool
	MetricsService metrics.MetricsService
}

func (m *DocumentModel) Insert(ctx context.Context, doc Document) error {
	const query = `
		INSERT INTO documents (id, file_name, content_hash, uploaded_by, verified, created_at)
		VALUES (:id, :file_name, :content_hash, :uploaded_by, :verified, :created_at)`
	start := time.Now()
	_, err := m.DB.NamedExecContext(ctx, query, doc)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("Insert", "documents", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("Insert", "documents", utils.GetDBErrorType(err))
		return fmt.Errorf("inserting document %s: %w", doc.ID, err)
	}
	m.MetricsService.IncDBQuery("Insert", "documents")
	return nil
}

func (m *DocumentModel) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `SELECT * FROM documents WHERE id = $1`
	var doc Document
	start := time.Now()
	err := m.DB.GetContext(ctx, &doc, query, id)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("GetByID", "documents", duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrRecordNotFound
		}
		m.MetricsService.IncDBQueryError("GetByID", "documents", utils.GetDBErrorType(err))
		return Document{}, fmt.Errorf("getting document %s: %w", id, err)
	}
	m.MetricsService.IncDBQuery("GetByID", "documents")
	return doc, nil
}

// MissingIDs returns the subset of ids with no stored document. An empty
// result means every referenced document exists.
func (m *DocumentModel) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
		SELECT candidate.id
		FROM UNNEST($1::text[]) AS candidate(id)
		LEFT JOIN documents ON documents.id = candidate.id
		WHERE documents.id IS NULL`
	var missing []string
	start := time.Now()
	err := m.DB.SelectContext(ctx, &missing, query, pq.Array(ids))
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("MissingIDs", "documents", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("MissingIDs", "documents", utils.GetDBErrorType(err))
		return nil, fmt.Errorf("checking document existence: %w", err)
	}
	m.MetricsService.IncDBQuery("MissingIDs", "documents")
	return missing, nil
}

// Verify marks a document as checked by a reviewing officer.
func (m *DocumentModel) Verify(ctx context.Context, id, verifiedBy string) error {
	const query = `UPDATE documents SET verified = TRUE, verified_by = $1 WHERE id = $2`
	start := time.Now()
	result, err := m.DB.ExecContext(ctx, query, verifiedBy, id)
	duration := time.Since(start).Seconds()
	m.MetricsService.ObserveDBQueryDuration("Verify", "documents", duration)
	if err != nil {
		m.MetricsService.IncDBQueryError("Verify", "documents", utils.GetDBErrorType(err))
		return fmt.Errorf("verifying document %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected for document %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	m.MetricsService.IncDBQuery("Verify", "documents")
	return nil
}
