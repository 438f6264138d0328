package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

const documentColumns = `id, organization_id, name, path, content_type, size, uploaded_by, created_at`

func scanDocument(row pgx.Row) (document.Document, error) {
	var d document.Document
	err := row.Scan(&d.ID, &d.OrganizationID, &d.Name, &d.Path, &d.ContentType, &d.Size, &d.UploadedBy, &d.CreatedAt)
	return d, err
}

func (r *documentRepositoryImpl) Create(ctx context.Context, d document.Document) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO documents (organization_id, name, path, content_type, size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns

	created, err := scanDocument(q.QueryRow(ctx, query, d.OrganizationID, d.Name, d.Path, d.ContentType, d.Size, d.UploadedBy))
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to insert document: %w", err)
	}
	return created, nil
}

func (r *documentRepositoryImpl) GetByID(ctx context.Context, id, organizationID string) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND organization_id = $2`

	d, err := scanDocument(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if isNotFound(err) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, err
	}
	return d, nil
}

func (r *documentRepositoryImpl) List(ctx context.Context, organizationID string) ([]document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + documentColumns + ` FROM documents WHERE organization_id = $1 ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	documents := []document.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (r *documentRepositoryImpl) Delete(ctx context.Context, id, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		if isNotFound(err) {
			return document.ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}
