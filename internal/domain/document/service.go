package document

import "context"

type DocumentService interface {
	Upload(ctx context.Context, req UploadDocumentRequest) (DocumentResponse, error)
	List(ctx context.Context) ([]DocumentResponse, error)
	// Download opens a document of the caller's organization.
	Download(ctx context.Context, id string) (File, error)
	Delete(ctx context.Context, id string) error
}
