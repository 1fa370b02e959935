package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/workflow"
)

type DocumentService interface {
	// RegisterDocument records an uploaded document's metadata so requests
	// can reference it.
	RegisterDocument(ctx context.Context, fileName, contentHash string, actor entities.Actor) (data.Document, error)
	GetDocument(ctx context.Context, id string) (data.Document, error)
	// VerifyDocument marks a document as checked. Reserved for officials.
	VerifyDocument(ctx context.Context, id string, actor entities.Actor) error
}

var _ DocumentService = (*documentService)(nil)

type documentService struct {
	documents DocumentStore
}

func NewDocumentService(documents DocumentStore) (*documentService, error) {
	if documents == nil {
		return nil, errors.New("document store cannot be nil")
	}
	return &documentService{documents: documents}, nil
}

func (s *documentService) RegisterDocument(ctx context.Context, fileName, contentHash string, actor entities.Actor) (data.Document, error) {
	doc := data.Document{
		ID:          uuid.NewString(),
		FileName:    fileName,
		ContentHash: contentHash,
		UploadedBy:  actor.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.documents.Insert(ctx, doc); err != nil {
		return data.Document{}, fmt.Errorf("registering document %s: %w", fileName, err)
	}
	return doc, nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (data.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return data.Document{}, fmt.Errorf("getting document %s: %w", id, err)
	}
	return doc, nil
}

func (s *documentService) VerifyDocument(ctx context.Context, id string, actor entities.Actor) error {
	if actor.Org == entities.OrgCitizen {
		return &workflow.UnauthorizedError{Org: actor.Org, Reason: "only officials verify documents"}
	}
	if err := s.documents.Verify(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("verifying document %s: %w", id, err)
	}
	return nil
}
