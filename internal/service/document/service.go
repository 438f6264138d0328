package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type DocumentServiceImpl struct {
	documentRepo document.DocumentRepository
	storage      storage.FileStorage
}

func NewDocumentService(documentRepo document.DocumentRepository, fileStorage storage.FileStorage) document.DocumentService {
	return &DocumentServiceImpl{
		documentRepo: documentRepo,
		storage:      fileStorage,
	}
}

func toResponse(d document.Document) document.DocumentResponse {
	return document.DocumentResponse{
		ID:          d.ID,
		Name:        d.Name,
		URL:         document.DownloadPath(d.ID),
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

func contentTypeOf(req document.UploadDocumentRequest, ext string) string {
	if ct := req.FileHeader.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload implements document.DocumentService.
func (s *DocumentServiceImpl) Upload(ctx context.Context, req document.UploadDocumentRequest) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	if claims.OrganizationID == "" {
		return document.DocumentResponse{}, jwt.ErrOrganizationMissing
	}

	ext := strings.ToLower(filepath.Ext(req.FileHeader.Filename))
	key := path.Join("documents", claims.OrganizationID, uuid.New().String()+ext)
	contentType := contentTypeOf(req, ext)

	storedKey, err := s.storage.Put(ctx, key, req.File, contentType)
	if err != nil {
		return document.DocumentResponse{}, fmt.Errorf("failed to upload document: %w", err)
	}

	created, err := s.documentRepo.Create(ctx, document.Document{
		OrganizationID: claims.OrganizationID,
		Name:           req.Name,
		Path:           storedKey,
		ContentType:    contentType,
		Size:           req.FileHeader.Size,
		UploadedBy:     claims.UserID,
	})
	if err != nil {
		if delErr := s.storage.Remove(ctx, storedKey); delErr != nil {
			slog.Error("failed to remove orphaned upload", "path", storedKey, "error", delErr)
		}
		return document.DocumentResponse{}, fmt.Errorf("failed to save document: %w", err)
	}

	return toResponse(created), nil
}

// List implements document.DocumentService.
func (s *DocumentServiceImpl) List(ctx context.Context) ([]document.DocumentResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	responses := make([]document.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, toResponse(d))
	}
	return responses, nil
}

func (s *DocumentServiceImpl) get(ctx context.Context, id string) (document.Document, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return document.Document{}, err
	}

	doc, err := s.documentRepo.GetByID(ctx, id, orgID)
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// Download implements document.DocumentService.
func (s *DocumentServiceImpl) Download(ctx context.Context, id string) (document.File, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return document.File{}, err
	}

	body, err := s.storage.Open(ctx, doc.Path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			slog.Warn("document row has no stored file", "document_id", doc.ID, "path", doc.Path)
			return document.File{}, document.ErrDocumentNotFound
		}
		return document.File{}, fmt.Errorf("failed to open document: %w", err)
	}

	return document.File{
		Name:        doc.Name,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		Body:        body,
	}, nil
}

// Delete implements document.DocumentService.
func (s *DocumentServiceImpl) Delete(ctx context.Context, id string) error {
	doc, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.documentRepo.Delete(ctx, doc.ID, doc.OrganizationID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if err := s.storage.Remove(ctx, doc.Path); err != nil {
		slog.Warn("failed to delete stored file", "path", doc.Path, "error", err)
	}
	return nil
}
