package comment

import (
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

const maxBodyLength = 2000

type CreateCommentRequest struct {
	ScheduleID string `json:"-"`
	Body       string `json:"body"`
}

func (r *CreateCommentRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	if validator.IsEmpty(r.Body) {
		return validator.ValidationErrors{{Field: "body", Message: "body is required"}}
	}
	if len(r.Body) > maxBodyLength {
		return validator.ValidationErrors{{Field: "body", Message: "body must not exceed 2000 characters"}}
	}
	return nil
}

type CommentResponse struct {
	ID         string `json:"id"`
	ScheduleID string `json:"schedule_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
}
