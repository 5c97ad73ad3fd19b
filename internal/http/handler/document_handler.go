package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/mapper"
	"github.com/iTakecare/itakecarehub-sub001/internal/service"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, maxUploadMB int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// Upload godoc
// @Summary Upload offer document
// @Description Attach a supporting document to an offer (multipart form, field "file")
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param file formData file true "Document to upload"
// @Success 201 {object} domain.DocumentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 413 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /offers/{id}/documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Form field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(r.Context(), offerID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.handleError(w, err, "failed to upload document")
		return
	}

	respondJSON(w, http.StatusCreated, mapper.DocumentToDTO(doc))
}

// ListByOffer godoc
// @Summary List offer documents
// @Tags Documents
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 200 {array} domain.DocumentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /offers/{id}/documents [get]
func (h *DocumentHandler) ListByOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid offer ID format")
		return
	}

	docs, err := h.documentService.ListByOffer(r.Context(), offerID)
	if err != nil {
		h.handleError(w, err, "failed to list documents")
		return
	}

	respondJSON(w, http.StatusOK, mapper.DocumentsToDTO(docs))
}

// Download godoc
// @Summary Download document
// @Tags Documents
// @Produce application/octet-stream
// @Param id path string true "Document ID" format(uuid)
// @Success 200
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	doc, reader, err := h.documentService.Download(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "failed to download document")
		return
	}
	defer reader.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.Filename+"\"")
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// Delete godoc
// @Summary Delete document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	if err := h.documentService.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, "failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) handleError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		respondWithError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, service.ErrOfferNotFound):
		respondWithError(w, http.StatusNotFound, "Offer not found")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
