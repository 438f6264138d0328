package document

import "context"

type DocumentRepository interface {
	Create(ctx context.Context, d Document) (Document, error)
	GetByID(ctx context.Context, id, organizationID string) (Document, error)
	List(ctx context.Context, organizationID string) ([]Document, error)
	Delete(ctx context.Context, id, organizationID string) error
}
