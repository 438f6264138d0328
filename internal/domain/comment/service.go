package comment

import "context"

type CommentService interface {
	List(ctx context.Context, scheduleID string) ([]CommentResponse, error)
	Create(ctx context.Context, req CreateCommentRequest) (CommentResponse, error)
	Delete(ctx context.Context, scheduleID, commentID string) error
}
