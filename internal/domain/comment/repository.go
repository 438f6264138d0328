package comment

import "context"

type CommentRepository interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	GetByID(ctx context.Context, id, scheduleID string) (Comment, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]Comment, error)
	Delete(ctx context.Context, id string) error
}
