package comment

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("only the author or a manager can delete this comment")
)
