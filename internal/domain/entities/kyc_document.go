package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DocumentType represents the kind of KYC artifact
type DocumentType string

const (
	DocumentNationalID       DocumentType = "national_id"
	DocumentPassport         DocumentType = "passport"
	DocumentDriversLicense   DocumentType = "drivers_license"
	DocumentProofOfAddress   DocumentType = "proof_of_address"
	DocumentBankStatement    DocumentType = "bank_statement"
	DocumentFarmRegistration DocumentType = "farm_registration"
	DocumentTaxCertificate   DocumentType = "tax_certificate"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentNationalID, DocumentPassport, DocumentDriversLicense, DocumentProofOfAddress,
		DocumentBankStatement, DocumentFarmRegistration, DocumentTaxCertificate:
		return true
	}
	return false
}

// DocumentStatus represents the review state of a KYC document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// KYCDocument represents an uploaded verification artifact
type KYCDocument struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	DocumentType    DocumentType   `json:"document_type"`
	FileURL         string         `json:"file_url"`
	FilePath        string         `json:"file_path"`
	FileName        string         `json:"file_name"`
	ContentType     string         `json:"content_type"`
	FileSize        int64          `json:"file_size"`
	Status          DocumentStatus `json:"status"`
	RejectionReason null.String    `json:"rejection_reason"`
	ReviewedBy      null.String    `json:"reviewed_by"`
	ReviewedAt      null.Time      `json:"reviewed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// RowID implements livequery.Row
func (d KYCDocument) RowID() uuid.UUID { return d.ID }

// KYCDocumentFilter narrows document listings
type KYCDocumentFilter struct {
	UserID       *uuid.UUID
	Status       DocumentStatus
	DocumentType DocumentType
	Limit        int
	Offset       int
}

// RequiredDocuments lists the document types a role must have approved
// before its KYC status becomes approved.
func RequiredDocuments(role UserRole) []DocumentType {
	switch role {
	case UserRoleFarmer:
		return []DocumentType{DocumentNationalID, DocumentProofOfAddress, DocumentFarmRegistration}
	case UserRoleInvestor:
		return []DocumentType{DocumentNationalID, DocumentProofOfAddress}
	}
	return nil
}

// ComputeKYCStatus derives a user's overall status from their documents.
// Only the most recent document of each type is considered.
func ComputeKYCStatus(role UserRole, docs []*KYCDocument) KYCStatus {
	latest := make(map[DocumentType]*KYCDocument)
	for _, d := range docs {
		if cur, ok := latest[d.DocumentType]; !ok || d.CreatedAt.After(cur.CreatedAt) {
			latest[d.DocumentType] = d
		}
	}

	for _, d := range latest {
		if d.Status == DocumentStatusRejected {
			return KYCRejected
		}
	}

	required := RequiredDocuments(role)
	if len(required) == 0 {
		return KYCApproved
	}
	for _, t := range required {
		d, ok := latest[t]
		if !ok || d.Status != DocumentStatusApproved {
			return KYCPending
		}
	}
	return KYCApproved
}
