package memory

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/comment"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/document"
	"github.com/google/uuid"
)

type commentRepository struct{ *Store }

func (s *Store) Comments() comment.CommentRepository { return commentRepository{s} }

func (r commentRepository) withAuthor(c comment.Comment) comment.Comment {
	if u, ok := r.data.users[c.AuthorID]; ok {
		c.AuthorName = u.Name
	}
	return c
}

func (r commentRepository) Create(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.NewString()
	c.CreatedAt = r.now()
	r.data.comments[c.ID] = c
	return r.withAuthor(c), nil
}

func (r commentRepository) GetByID(ctx context.Context, id, scheduleID string) (comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.data.comments[id]
	if !ok || c.ScheduleID != scheduleID {
		return comment.Comment{}, comment.ErrCommentNotFound
	}
	return r.withAuthor(c), nil
}

func (r commentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := sortedValues(r.data.comments, func(c comment.Comment) bool {
		return c.ScheduleID == scheduleID
	}, func(a, b comment.Comment) bool { return a.CreatedAt.Before(b.CreatedAt) })
	for i := range out {
		out[i] = r.withAuthor(out[i])
	}
	return out, nil
}

func (r commentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data.comments[id]; !ok {
		return comment.ErrCommentNotFound
	}
	delete(r.data.comments, id)
	return nil
}

type documentRepository struct{ *Store }

func (s *Store) Documents() document.DocumentRepository { return documentRepository{s} }

func (r documentRepository) Create(ctx context.Context, d document.Document) (document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = uuid.NewString()
	d.CreatedAt = r.now()
	r.data.documents[d.ID] = d
	return d, nil
}

func (r documentRepository) GetByID(ctx context.Context, id, organizationID string) (document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.data.documents[id]
	if !ok || d.OrganizationID != organizationID {
		return document.Document{}, document.ErrDocumentNotFound
	}
	return d, nil
}

func (r documentRepository) List(ctx context.Context, organizationID string) ([]document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sortedValues(r.data.documents, func(d document.Document) bool {
		return d.OrganizationID == organizationID
	}, func(a, b document.Document) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (r documentRepository) Delete(ctx context.Context, id, organizationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.data.documents[id]
	if !ok || d.OrganizationID != organizationID {
		return document.ErrDocumentNotFound
	}
	delete(r.data.documents, id)
	return nil
}
