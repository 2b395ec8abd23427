package usecases

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KYCUsecase handles identity document upload and review
type KYCUsecase struct {
	uow              repositories.UnitOfWork
	userRepo         repositories.UserRepository
	documentRepo     repositories.KYCDocumentRepository
	notificationRepo repositories.NotificationRepository
	storage          repositories.ObjectStorage
	feed             repositories.ChangeFeed
	bucket           string
	maxUploadBytes   int64
}

func NewKYCUsecase(
	uow repositories.UnitOfWork,
	userRepo repositories.UserRepository,
	documentRepo repositories.KYCDocumentRepository,
	notificationRepo repositories.NotificationRepository,
	storage repositories.ObjectStorage,
	feed repositories.ChangeFeed,
	bucket string,
	maxUploadBytes int64,
) *KYCUsecase {
	return &KYCUsecase{
		uow:              uow,
		userRepo:         userRepo,
		documentRepo:     documentRepo,
		notificationRepo: notificationRepo,
		storage:          storage,
		feed:             feed,
		bucket:           bucket,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Upload stores a document for p and records it as pending review. The stored
// object is removed again when the record cannot be written.
func (u *KYCUsecase) Upload(ctx context.Context, p entities.Principal, docType string, up Upload) (*entities.KYCDocument, error) {
	typ := entities.DocumentType(docType)
	if !typ.Valid() {
		return nil, domainerrors.Validation(map[string]string{"document_type": "Choose a valid document type"})
	}
	contentType, ext, body, err := sniff(up, documentTypes, u.maxUploadBytes)
	if err != nil {
		return nil, err
	}

	userID := p.UserID()
	key := fmt.Sprintf("%s/%s-%s%s", userID, typ, utils.GenerateUUIDv7(), ext)
	obj, err := u.storage.Upload(ctx, u.bucket, key, contentType, body)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &entities.KYCDocument{
		ID:           utils.GenerateUUIDv7(),
		UserID:       userID,
		DocumentType: typ,
		FileURL:      obj.URL,
		FilePath:     obj.Key,
		FileName:     path.Base(up.FileName),
		ContentType:  contentType,
		FileSize:     obj.Size,
		Status:       entities.DocumentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var userBefore, userAfter *entities.User
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.documentRepo.Create(txCtx, doc); err != nil {
			return err
		}
		var err error
		userBefore, userAfter, err = u.refreshStatus(txCtx, userID)
		return err
	})
	if err != nil {
		if delErr := u.storage.Delete(ctx, u.bucket, key); delErr != nil {
			logger.Warn(ctx, "Failed to remove orphaned KYC object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	logger.Info(ctx, "KYC document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("type", string(typ)),
	)
	changes := []change{inserted(entities.TableKYCDocuments, doc)}
	if userAfter != nil {
		changes = append(changes, updated(entities.TableUsers, userAfter, userBefore))
	}
	publish(ctx, u.feed, changes...)
	return doc, nil
}

// List returns p's documents, or any user's when p is an admin
func (u *KYCUsecase) List(ctx context.Context, p entities.Principal, filter entities.KYCDocumentFilter) ([]*entities.KYCDocument, error) {
	if _, admin := p.(entities.AdminPrincipal); !admin {
		id := p.UserID()
		filter.UserID = &id
	}
	return u.documentRepo.List(ctx, filter)
}

// Review approves or rejects a document and recomputes the owner's KYC status
func (u *KYCUsecase) Review(ctx context.Context, admin entities.AdminPrincipal, id uuid.UUID, form validation.KYCReviewForm) (*entities.KYCDocument, error) {
	input, fields := validation.ValidateKYCReview(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	var (
		before, doc           *entities.KYCDocument
		userBefore, userAfter *entities.User
		note                  *entities.Notification
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		if before, err = u.documentRepo.GetByID(txCtx, id); err != nil {
			return err
		}
		if before.Status != entities.DocumentStatusPending {
			return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict,
				"This document has already been reviewed", domainerrors.ErrInvalidTransition)
		}
		if doc, err = u.documentRepo.Review(txCtx, id, input.Status, input.Reason, admin.ID); err != nil {
			return err
		}
		if userBefore, userAfter, err = u.refreshStatus(txCtx, doc.UserID); err != nil {
			return err
		}

		note = reviewNotification(doc, userAfter)
		return u.notificationRepo.Create(txCtx, note)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "KYC document reviewed",
		zap.String("document_id", id.String()),
		zap.String("status", string(doc.Status)),
		zap.String("admin_id", admin.ID.String()),
	)
	changes := []change{updated(entities.TableKYCDocuments, doc, before)}
	if userAfter != nil {
		changes = append(changes, updated(entities.TableUsers, userAfter, userBefore))
	}
	publish(ctx, u.feed, append(changes, inserted(entities.TableNotifications, note))...)
	return doc, nil
}

func reviewNotification(doc *entities.KYCDocument, user *entities.User) *entities.Notification {
	label := documentLabel(doc.DocumentType)
	if doc.Status == entities.DocumentStatusRejected {
		return newNotification(doc.UserID, entities.NotificationKYC,
			"Document Rejected",
			fmt.Sprintf("Your %s was rejected: %s", label, doc.RejectionReason.String),
			"/kyc")
	}
	message := fmt.Sprintf("Your %s was approved", label)
	if user != nil && user.KYCStatus == entities.KYCApproved {
		message += ". Your account is now fully verified"
	}
	return newNotification(doc.UserID, entities.NotificationKYC, "Document Approved", message, "/kyc")
}

// Delete removes one of p's pending documents and its stored file
func (u *KYCUsecase) Delete(ctx context.Context, p entities.Principal, id uuid.UUID) error {
	var (
		doc                   *entities.KYCDocument
		userBefore, userAfter *entities.User
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		if doc, err = u.documentRepo.GetByID(txCtx, id); err != nil {
			return err
		}
		if doc.UserID != p.UserID() {
			return domainerrors.ErrNotFound
		}
		if doc.Status != entities.DocumentStatusPending {
			return domainerrors.Conflict("Only documents awaiting review can be deleted")
		}
		if err := u.documentRepo.Delete(txCtx, id); err != nil {
			return err
		}
		userBefore, userAfter, err = u.refreshStatus(txCtx, doc.UserID)
		return err
	})
	if err != nil {
		return err
	}

	if err := u.storage.Delete(ctx, u.bucket, doc.FilePath); err != nil {
		logger.Warn(ctx, "Failed to delete KYC object", zap.String("key", doc.FilePath), zap.Error(err))
	}
	changes := []change{deleted(entities.TableKYCDocuments, doc)}
	if userAfter != nil {
		changes = append(changes, updated(entities.TableUsers, userAfter, userBefore))
	}
	publish(ctx, u.feed, changes...)
	return nil
}

// refreshStatus recomputes a user's KYC status from their documents. It
// returns the user before and after when the status changed.
func (u *KYCUsecase) refreshStatus(ctx context.Context, userID uuid.UUID) (*entities.User, *entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	docs, err := u.documentRepo.List(ctx, entities.KYCDocumentFilter{UserID: &userID})
	if err != nil {
		return nil, nil, err
	}
	status := entities.ComputeKYCStatus(user.Role, docs)
	if status == user.KYCStatus {
		return nil, nil, nil
	}
	if err := u.userRepo.UpdateKYCStatus(ctx, userID, status); err != nil {
		return nil, nil, err
	}
	after := *user
	after.KYCStatus = status
	return user, &after, nil
}

func documentLabel(t entities.DocumentType) string {
	switch t {
	case entities.DocumentNationalID:
		return "national ID"
	case entities.DocumentPassport:
		return "passport"
	case entities.DocumentDriversLicense:
		return "driver's license"
	case entities.DocumentProofOfAddress:
		return "proof of address"
	case entities.DocumentBankStatement:
		return "bank statement"
	case entities.DocumentFarmRegistration:
		return "farm registration"
	case entities.DocumentTaxCertificate:
		return "tax certificate"
	}
	return string(t)
}
