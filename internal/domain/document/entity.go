package document

import "time"

type Document struct {
	ID             string
	OrganizationID string
	Name           string
	Path           string // storage key
	ContentType    string
	Size           int64
	UploadedBy     string
	CreatedAt      time.Time
}
