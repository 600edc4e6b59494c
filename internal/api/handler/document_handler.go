package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/document"
	"kyc-onboarding/internal/pkg/apperrors"
)

const (
	documentIDParam = "documentID"
	// multipartOverhead leaves room for boundaries and the documentType field.
	multipartOverhead  = 1 << 20
	multipartMemoryBuf = 1 << 20
	uploadFileField    = "file"
	uploadDocTypeField = "documentType"
)

type DocumentHandler struct {
	service  document.Service
	maxBytes int64
	logger   *slog.Logger
}

func NewDocumentHandler(s document.Service, maxUploadBytes int64, l *slog.Logger) *DocumentHandler {
	if s == nil {
		panic("document service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = document.DefaultMaxUploadBytes
	}
	return &DocumentHandler{
		service:  s,
		maxBytes: maxUploadBytes,
		logger:   l.With("component", "DocumentHandler"),
	}
}

// UploadDocument handles POST /customers/{customerID}/documents
// @Summary Upload a KYC document
// @Description Accepts PDF, JPEG or PNG files. The type is sniffed from content, not taken from the client.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param documentType formData string true "Document type, e.g. PASSPORT"
// @Param file formData file true "Document file"
// @Success 201 {object} dto.DocumentResponse "Stored document"
// @Failure 400 {object} dto.ErrorResponse "Missing file, unsupported type or too large"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 503 {object} dto.ErrorResponse "Document storage not configured"
// @Router /customers/{customerID}/documents [post]
// @Security BearerAuth
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	actor, customerID, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemoryBuf); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.WarnContext(r.Context(), "Upload body too large", slog.Int64("limit", tooLarge.Limit))
			respondError(w, apperrors.NewValidationError(uploadFileField, fmt.Sprintf("file exceeds the maximum size of %d bytes", h.maxBytes)))
			return
		}
		h.logger.WarnContext(r.Context(), "Failed to parse multipart form", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: expected multipart/form-data: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadFileField)
	if err != nil {
		respondError(w, apperrors.NewValidationError(uploadFileField, "file is required"))
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(r.Context(), actor, document.UploadInput{
		CustomerID:   customerID,
		DocumentType: r.FormValue(uploadDocTypeField),
		FileName:     header.Filename,
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to upload document", slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Document uploaded", slog.Int64("documentID", doc.ID))
	respondJSON(w, http.StatusCreated, dto.NewDocumentResponse(doc))
}

// ListDocuments handles GET /customers/{customerID}/documents
// @Summary List a customer's documents
// @Tags Documents
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.DocumentResponse "Document metadata"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID}/documents [get]
// @Security BearerAuth
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, customerID, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	docs, err := h.service.List(r.Context(), actor, customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to list documents", slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDocumentListResponse(docs))
}

// DocumentURL handles GET /documents/{documentID}/url
// @Summary Signed download URL
// @Tags Documents
// @Produce json
// @Param documentID path int true "Document ID" Minimum(1)
// @Success 200 {object} dto.SignedURLResponse "Short-lived URL"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{documentID}/url [get]
// @Security BearerAuth
func (h *DocumentHandler) DocumentURL(w http.ResponseWriter, r *http.Request) {
	actor, documentID, ok := actorAndID(w, r, documentIDParam)
	if !ok {
		return
	}

	signed, err := h.service.SignedURL(r.Context(), actor, documentID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to sign document URL", slog.Int64("documentID", documentID), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.SignedURLResponse{URL: signed.URL, ExpiresAt: signed.ExpiresAt})
}
