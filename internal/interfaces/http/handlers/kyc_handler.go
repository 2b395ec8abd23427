package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KYCService is the identity verification API the KYC handler depends on
type KYCService interface {
	Upload(ctx context.Context, p entities.Principal, docType string, up usecases.Upload) (*entities.KYCDocument, error)
	List(ctx context.Context, p entities.Principal, filter entities.KYCDocumentFilter) ([]*entities.KYCDocument, error)
	Review(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID, form validation.KYCReviewForm) (*entities.KYCDocument, error)
	Delete(ctx context.Context, p entities.Principal, id uuid.UUID) error
}

// KYCHandler handles KYC document endpoints
type KYCHandler struct {
	kycService KYCService
}

// NewKYCHandler creates a new KYC handler
func NewKYCHandler(kycService KYCService) *KYCHandler {
	return &KYCHandler{kycService: kycService}
}

// Upload submits a verification document
// POST /api/v1/kyc/documents (multipart, fields "document_type" and "file")
func (h *KYCHandler) Upload(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	docType := strings.TrimSpace(c.PostForm("document_type"))
	if docType == "" {
		response.Error(c, domainerrors.Validation(map[string]string{"document_type": "Document type is required"}))
		return
	}
	up, closeFn, ok := formUpload(c, "file")
	if !ok {
		return
	}
	defer closeFn()

	doc, err := h.kycService.Upload(c.Request.Context(), p, docType, up)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, doc)
}

// List lists the caller's documents, or every user's for admins
// GET /api/v1/kyc/documents and GET /api/v1/admin/kyc/documents?status=&user_id=
func (h *KYCHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := queryID(c, "user_id")
	if !ok {
		return
	}
	filter := entities.KYCDocumentFilter{
		UserID:       userID,
		Status:       entities.DocumentStatus(c.Query("status")),
		DocumentType: entities.DocumentType(c.Query("document_type")),
	}
	filter.Limit, filter.Offset = page(c)

	docs, err := h.kycService.List(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, docs, len(docs))
}

// Review approves or rejects a document
// POST /api/v1/admin/kyc/documents/:id/review
func (h *KYCHandler) Review(c *gin.Context) {
	a, ok := admin(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form validation.KYCReviewForm
	if !bindJSON(c, &form) {
		return
	}

	doc, err := h.kycService.Review(c.Request.Context(), a, id, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// Delete withdraws a pending document
// DELETE /api/v1/kyc/documents/:id
func (h *KYCHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.kycService.Delete(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
