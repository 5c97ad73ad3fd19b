package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/auth"
	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
	"github.com/iTakecare/itakecarehub-sub001/internal/storage"
)

// DocumentService stores files attached to offers, typically the documents
// requested while an offer sits in info_requested.
type DocumentService struct {
	documentRepo *repository.DocumentRepository
	offerRepo    *repository.OfferRepository
	store        storage.Storage
	logger       *zap.Logger
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	offerRepo *repository.OfferRepository,
	store storage.Storage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		offerRepo:    offerRepo,
		store:        store,
		logger:       logger,
	}
}

// Upload stores the file and records its metadata. If the metadata insert
// fails the stored file is removed again.
func (s *DocumentService) Upload(ctx context.Context, offerID uuid.UUID, filename, contentType string, data io.Reader) (*domain.Document, error) {
	if _, err := s.offerRepo.GetByID(ctx, offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	storagePath, size, err := s.store.Upload(ctx, offerID, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &domain.Document{
		OfferID:     offerID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
	}
	if user, ok := auth.FromContext(ctx); ok {
		doc.UploadedBy = user.UserID.String()
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove stored file after metadata insert failure",
				zap.String("storage_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("offer_id", offerID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)
	return doc, nil
}

// Download streams a stored document
func (s *DocumentService) Download(ctx context.Context, id uuid.UUID) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.store.Download(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return doc, reader, nil
}

// Delete removes both the metadata and the stored file
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		s.logger.Warn("document metadata deleted but stored file removal failed",
			zap.String("storage_path", doc.StoragePath),
			zap.Error(err),
		)
	}
	return nil
}

func (s *DocumentService) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]domain.Document, error) {
	if _, err := s.offerRepo.GetByID(ctx, offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	docs, err := s.documentRepo.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) getDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}
