package models

import "time"

type DocumentKind string

const (
	DocumentKindInvoice  DocumentKind = "invoice"
	DocumentKindContract DocumentKind = "contract"
	DocumentKindOrder    DocumentKind = "order"
)

// Document is an uploaded file attached to an assignment. Bytes live in S3
// under FilePath; this row is the metadata.
type Document struct {
	ID           string       `json:"id"`
	Name         string       `json:"name" validate:"required"`
	Kind         DocumentKind `json:"kind" validate:"required,oneof=invoice contract order"`
	URL          string       `json:"url"`
	FilePath     string       `json:"-"`
	Size         int64        `json:"size"`
	AssignmentID string       `json:"assignment_id" validate:"required,uuid4"`
	UploadedBy   string       `json:"uploaded_by"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}

type UpdateDocumentRequest struct {
	Name *string       `json:"name,omitempty" validate:"omitempty,min=1"`
	Kind *DocumentKind `json:"kind,omitempty" validate:"omitempty,oneof=invoice contract order"`
}
