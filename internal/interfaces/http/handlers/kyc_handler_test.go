package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kycServiceStub struct {
	uploadFn func(ctx context.Context, p entities.Principal, docType string, up usecases.Upload) (*entities.KYCDocument, error)
	listFn   func(ctx context.Context, p entities.Principal, filter entities.KYCDocumentFilter) ([]*entities.KYCDocument, error)
	reviewFn func(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID, form validation.KYCReviewForm) (*entities.KYCDocument, error)
	deleteFn func(ctx context.Context, p entities.Principal, id uuid.UUID) error
}

func (s kycServiceStub) Upload(ctx context.Context, p entities.Principal, docType string, up usecases.Upload) (*entities.KYCDocument, error) {
	return s.uploadFn(ctx, p, docType, up)
}
func (s kycServiceStub) List(ctx context.Context, p entities.Principal, filter entities.KYCDocumentFilter) ([]*entities.KYCDocument, error) {
	return s.listFn(ctx, p, filter)
}
func (s kycServiceStub) Review(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID, form validation.KYCReviewForm) (*entities.KYCDocument, error) {
	return s.reviewFn(ctx, admin, id, form)
}
func (s kycServiceStub) Delete(ctx context.Context, p entities.Principal, id uuid.UUID) error {
	return s.deleteFn(ctx, p, id)
}

func kycRouter(p entities.Principal, stub kycServiceStub) *gin.Engine {
	h := NewKYCHandler(stub)
	r := newRouter(p)
	r.POST("/kyc/documents", h.Upload)
	r.GET("/kyc/documents", h.List)
	r.DELETE("/kyc/documents/:id", h.Delete)
	r.POST("/admin/kyc/documents/:id/review", h.Review)
	return r
}

func TestKYCHandler_Upload(t *testing.T) {
	stub := kycServiceStub{
		uploadFn: func(_ context.Context, p entities.Principal, docType string, up usecases.Upload) (*entities.KYCDocument, error) {
			if docType == "selfie" {
				return nil, domainerrors.Validation(map[string]string{"document_type": "Choose a supported document type"})
			}
			return &entities.KYCDocument{
				ID:           uuid.New(),
				UserID:       p.UserID(),
				DocumentType: entities.DocumentType(docType),
				FileName:     up.FileName,
				FileSize:     up.Size,
				Status:       entities.DocumentStatusPending,
			}, nil
		},
	}
	r := kycRouter(investorP, stub)

	body, contentType := multipartBody(t, map[string]string{"document_type": "national_id"}, "file", "id.pdf", []byte("%PDF-1.4 body"))
	w := do(r, http.MethodPost, "/kyc/documents", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"document_type":"national_id"`)
	assert.Contains(t, w.Body.String(), `"file_name":"id.pdf"`)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	body, contentType = multipartBody(t, nil, "file", "id.pdf", []byte("%PDF-1.4 body"))
	w = do(r, http.MethodPost, "/kyc/documents", body, contentType)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Document type is required")

	body, contentType = multipartBody(t, map[string]string{"document_type": "selfie"}, "file", "me.png", []byte("x"))
	w = do(r, http.MethodPost, "/kyc/documents", body, contentType)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestKYCHandler_ListFilters(t *testing.T) {
	userID := uuid.New()
	var got entities.KYCDocumentFilter
	var caller entities.Principal
	stub := kycServiceStub{
		listFn: func(_ context.Context, p entities.Principal, filter entities.KYCDocumentFilter) ([]*entities.KYCDocument, error) {
			caller, got = p, filter
			return []*entities.KYCDocument{{ID: uuid.New()}}, nil
		},
	}
	r := kycRouter(adminP, stub)

	w := doJSON(r, http.MethodGet, "/kyc/documents?status=pending&user_id="+userID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adminP, caller)
	assert.Equal(t, entities.DocumentStatusPending, got.Status)
	require.NotNil(t, got.UserID)
	assert.Equal(t, userID, *got.UserID)
}

func TestKYCHandler_ReviewAndDelete(t *testing.T) {
	id := uuid.New()
	stub := kycServiceStub{
		reviewFn: func(_ context.Context, _ entities.AdminPrincipal, _ uuid.UUID, form validation.KYCReviewForm) (*entities.KYCDocument, error) {
			if form.Status == "rejected" && form.Reason == "" {
				return nil, domainerrors.Validation(map[string]string{"reason": "Reason is required"})
			}
			return &entities.KYCDocument{ID: id, Status: entities.DocumentStatus(form.Status)}, nil
		},
		deleteFn: func(_ context.Context, _ entities.Principal, _ uuid.UUID) error {
			return domainerrors.ErrInvalidTransition
		},
	}

	admin := kycRouter(adminP, stub)
	w := doJSON(admin, http.MethodPost, "/admin/kyc/documents/"+id.String()+"/review", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
	w = doJSON(admin, http.MethodPost, "/admin/kyc/documents/"+id.String()+"/review", `{"status":"rejected"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	farmer := kycRouter(farmerP, stub)
	assert.Equal(t, http.StatusForbidden, doJSON(farmer, http.MethodPost, "/admin/kyc/documents/"+id.String()+"/review", `{"status":"approved"}`).Code)
	assert.Equal(t, http.StatusConflict, doJSON(farmer, http.MethodDelete, "/kyc/documents/"+id.String(), "").Code)
}
