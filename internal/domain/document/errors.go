package document

import "errors"

var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrFileRequired       = errors.New("file is required")
	ErrFileTooLarge       = errors.New("file exceeds the maximum size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
)
