package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/comment"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
)

type CommentServiceImpl struct {
	commentRepo  comment.CommentRepository
	scheduleRepo schedule.ScheduleRepository
	userRepo     auth.UserRepository
}

func NewCommentService(commentRepo comment.CommentRepository, scheduleRepo schedule.ScheduleRepository, userRepo auth.UserRepository) comment.CommentService {
	return &CommentServiceImpl{
		commentRepo:  commentRepo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
	}
}

func toCommentResponse(c comment.Comment) comment.CommentResponse {
	return comment.CommentResponse{
		ID:         c.ID,
		ScheduleID: c.ScheduleID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

// ensureSchedule scopes comment access to schedules of the caller's organization.
func (s *CommentServiceImpl) ensureSchedule(ctx context.Context, scheduleID, orgID string) error {
	if _, err := s.scheduleRepo.GetByID(ctx, scheduleID, orgID); err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to get schedule: %w", err)
	}
	return nil
}

// List implements comment.CommentService.
func (s *CommentServiceImpl) List(ctx context.Context, scheduleID string) ([]comment.CommentResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchedule(ctx, scheduleID, orgID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	responses := make([]comment.CommentResponse, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, toCommentResponse(c))
	}
	return responses, nil
}

// Create implements comment.CommentService.
func (s *CommentServiceImpl) Create(ctx context.Context, req comment.CreateCommentRequest) (comment.CommentResponse, error) {
	if err := req.Validate(); err != nil {
		return comment.CommentResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return comment.CommentResponse{}, err
	}
	if claims.OrganizationID == "" {
		return comment.CommentResponse{}, jwt.ErrOrganizationMissing
	}
	if err := s.ensureSchedule(ctx, req.ScheduleID, claims.OrganizationID); err != nil {
		return comment.CommentResponse{}, err
	}

	created, err := s.commentRepo.Create(ctx, comment.Comment{
		ScheduleID: req.ScheduleID,
		AuthorID:   claims.UserID,
		Body:       req.Body,
	})
	if err != nil {
		return comment.CommentResponse{}, fmt.Errorf("failed to create comment: %w", err)
	}

	if created.AuthorName == "" {
		if user, err := s.userRepo.GetByID(ctx, claims.UserID); err == nil {
			created.AuthorName = user.Name
		}
	}
	return toCommentResponse(created), nil
}

// Delete implements comment.CommentService.
func (s *CommentServiceImpl) Delete(ctx context.Context, scheduleID, commentID string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if claims.OrganizationID == "" {
		return jwt.ErrOrganizationMissing
	}
	if err := s.ensureSchedule(ctx, scheduleID, claims.OrganizationID); err != nil {
		return err
	}

	c, err := s.commentRepo.GetByID(ctx, commentID, scheduleID)
	if err != nil {
		if errors.Is(err, comment.ErrCommentNotFound) {
			return comment.ErrCommentNotFound
		}
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if c.AuthorID != claims.UserID && !auth.Role(claims.Role).CanManage() {
		return comment.ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
