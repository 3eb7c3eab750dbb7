package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/inamate/canvas-editor/backend-go/internal/typeid"
)

// Repository persists document snapshots.
type Repository interface {
	LoadDocument(ctx context.Context, documentID string) (*Document, error)
	SaveDocument(ctx context.Context, doc *Document) (int, error)
}

type Service struct {
	repo         Repository
	playgroundID string
}

// NewService creates a document service. The playground document is open to every
// user and falls back to the sample document until it is first saved.
func NewService(repo Repository, playgroundID string) *Service {
	return &Service{repo: repo, playgroundID: playgroundID}
}

func (s *Service) IsPlayground(documentID string) bool {
	return documentID == s.playgroundID
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Document, error) {
	doc := NewEmptyDocument(typeid.NewDocumentID(), name)
	doc.OwnerID = ownerID

	if _, err := s.repo.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}
	return doc, nil
}

// Get loads a document on behalf of userID.
func (s *Service) Get(ctx context.Context, documentID, userID string) (*Document, error) {
	doc, err := s.Load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != "" && doc.OwnerID != userID {
		return nil, ErrForbidden
	}
	return doc, nil
}

// Load returns the latest snapshot without an access check.
func (s *Service) Load(ctx context.Context, documentID string) (*Document, error) {
	doc, err := s.repo.LoadDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) && s.IsPlayground(documentID) {
			return NewSampleDocument(documentID), nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *Service) Save(ctx context.Context, doc *Document) (int, error) {
	version, err := s.repo.SaveDocument(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return version, nil
}
