package document

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// MaxFileSize is the upload limit for documents.
const MaxFileSize = 10 << 20

var AllowedExtensions = []string{".pdf", ".csv", ".xlsx", ".png", ".jpg", ".jpeg", ".txt"}

type UploadDocumentRequest struct {
	Name       string                `json:"name"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *UploadDocumentRequest) Validate() error {
	if r.File == nil || r.FileHeader == nil {
		return ErrFileRequired
	}
	if r.FileHeader.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
	if !validator.IsInSlice(ext, AllowedExtensions) {
		return ErrFileTypeNotAllowed
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		r.Name = filepath.Base(r.FileHeader.Filename)
	}
	if len(r.Name) > 255 {
		return validator.ValidationErrors{{Field: "name", Message: "name must not exceed 255 characters"}}
	}
	return nil
}

type DocumentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}

// DownloadPath is the API route a document is fetched from.
func DownloadPath(id string) string {
	return "/api/v1/documents/" + id + "/download"
}

// File is an opened document. The caller must close Body.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}
