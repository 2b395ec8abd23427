package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		PasswordHash:      user.PasswordHash,
		Role:              string(user.Role),
		KYCStatus:         string(user.KYCStatus),
		Phone:             user.Phone.Ptr(),
		Bio:               user.Bio.Ptr(),
		Location:          user.Location.Ptr(),
		AvatarURL:         user.AvatarURL.Ptr(),
		BankName:          user.BankName.Ptr(),
		BankAccountNumber: user.BankAccountNumber.Ptr(),
		BankAccountName:   user.BankAccountName.Ptr(),
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
	return domainerrors.TranslateStorage(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	return toUserEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", strings.ToLower(email)).First(&m).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	return toUserEntity(&m), nil
}

// Update applies a profile update and returns the stored row
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, update entities.ProfileUpdate) (*entities.User, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	optional := map[string]*string{
		"phone":               update.Phone,
		"bio":                 update.Bio,
		"location":            update.Location,
		"avatar_url":          update.AvatarURL,
		"bank_name":           update.BankName,
		"bank_account_number": update.BankAccountNumber,
		"bank_account_name":   update.BankAccountName,
	}
	for col, v := range optional {
		if v != nil {
			updates[col] = strPtr(v)
		}
	}

	db := GetDB(ctx, r.db)
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	})
}

// UpdateKYCStatus sets a user's overall KYC status
func (r *UserRepository) UpdateKYCStatus(ctx context.Context, id uuid.UUID, status entities.KYCStatus) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"kyc_status": string(status),
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users with optional role and search filters
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, error) {
	var userModels []models.User
	query := GetDB(ctx, r.db).Order("created_at DESC")

	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		term := likePattern(strings.ToLower(s))
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, term, term)
	}
	query = paginate(query, filter.Limit, filter.Offset)

	if err := query.Find(&userModels).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, toUserEntity(&userModels[i]))
	}
	return users, nil
}

// SoftDelete soft deletes a user
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		PasswordHash:      m.PasswordHash,
		Role:              entities.UserRole(m.Role),
		KYCStatus:         entities.KYCStatus(m.KYCStatus),
		Phone:             null.StringFromPtr(m.Phone),
		Bio:               null.StringFromPtr(m.Bio),
		Location:          null.StringFromPtr(m.Location),
		AvatarURL:         null.StringFromPtr(m.AvatarURL),
		BankName:          null.StringFromPtr(m.BankName),
		BankAccountNumber: null.StringFromPtr(m.BankAccountNumber),
		BankAccountName:   null.StringFromPtr(m.BankAccountName),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
