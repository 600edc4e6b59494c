package dto

import (
	"time"

	"kyc-onboarding/internal/domain/document"
)

type DocumentResponse struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customerId"`
	DocumentType string    `json:"documentType"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func NewDocumentResponse(d *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		CustomerID:   d.CustomerID,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		UploadedBy:   d.UploadedBy,
		UploadedAt:   d.UploadedAt,
	}
}

func NewDocumentListResponse(docs []*document.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewDocumentResponse(d))
	}
	return out
}

type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
