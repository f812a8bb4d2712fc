package models

import (
	"time"
)

// PDFMimeType is the only content type accepted for resources
const PDFMimeType = "application/pdf"

// Resource is the metadata of an uploaded PDF.
// The file itself lives in the blob store under FileURL.
type Resource struct {
	ID        string    `json:"_id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	FileURL   string    `json:"fileUrl" bson:"fileUrl"`
	FileName  string    `json:"fileName" bson:"fileName"`
	FileSize  int64     `json:"fileSize" bson:"fileSize"`
	MimeType  string    `json:"mimeType" bson:"mimeType"`
	Downloads int       `json:"downloads" bson:"downloads"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
