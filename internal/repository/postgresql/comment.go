package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/comment"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
)

type commentRepositoryImpl struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) comment.CommentRepository {
	return &commentRepositoryImpl{db: db}
}

const commentSelect = `
	SELECT c.id, c.schedule_id, c.author_id, c.body, c.created_at, u.name
	FROM schedule_comments c
	JOIN users u ON u.id = c.author_id`

func (r *commentRepositoryImpl) Create(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO schedule_comments (schedule_id, author_id, body)
			VALUES ($1, $2, $3)
			RETURNING *
		)
		SELECT c.id, c.schedule_id, c.author_id, c.body, c.created_at, u.name
		FROM inserted c
		JOIN users u ON u.id = c.author_id`

	var created comment.Comment
	err := q.QueryRow(ctx, query, c.ScheduleID, c.AuthorID, c.Body).Scan(
		&created.ID, &created.ScheduleID, &created.AuthorID, &created.Body, &created.CreatedAt, &created.AuthorName,
	)
	if err != nil {
		return comment.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}
	return created, nil
}

func (r *commentRepositoryImpl) GetByID(ctx context.Context, id, scheduleID string) (comment.Comment, error) {
	q := GetQuerier(ctx, r.db)

	var c comment.Comment
	err := q.QueryRow(ctx, commentSelect+` WHERE c.id = $1 AND c.schedule_id = $2`, id, scheduleID).Scan(
		&c.ID, &c.ScheduleID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.AuthorName,
	)
	if err != nil {
		if isNotFound(err) {
			return comment.Comment{}, comment.ErrCommentNotFound
		}
		return comment.Comment{}, err
	}
	return c, nil
}

func (r *commentRepositoryImpl) ListBySchedule(ctx context.Context, scheduleID string) ([]comment.Comment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, commentSelect+` WHERE c.schedule_id = $1 ORDER BY c.created_at, c.id`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []comment.Comment{}
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.ScheduleID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedule_comments WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return comment.ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return comment.ErrCommentNotFound
	}
	return nil
}
