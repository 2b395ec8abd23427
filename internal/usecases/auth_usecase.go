package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/crypto"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/jwt"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/utils"
	"go.uber.org/zap"
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	blocklist  repositories.TokenBlocklist
	feed       repositories.ChangeFeed
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	blocklist repositories.TokenBlocklist,
	feed repositories.ChangeFeed,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		blocklist:  blocklist,
		feed:       feed,
	}
}

// SignUp registers a farmer or investor and signs them in
func (u *AuthUsecase) SignUp(ctx context.Context, form validation.SignUpForm) (*entities.AuthResponse, error) {
	input, fields := validation.ValidateSignUp(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.Conflict("An account with this email already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		Role:         input.Role,
		KYCStatus:    entities.KYCPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("An account with this email already exists")
		}
		return nil, err
	}
	publish(ctx, u.feed, inserted(entities.TableUsers, user))
	logger.Info(ctx, "User signed up", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))

	return u.issue(user)
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, form validation.LoginForm) (*entities.AuthResponse, error) {
	input, fields := validation.ValidateLogin(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issue(user)
}

// Refresh rotates a refresh token into a new token pair
func (u *AuthUsecase) Refresh(ctx context.Context, form validation.RefreshForm) (*jwt.TokenPair, error) {
	input, fields := validation.ValidateRefresh(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	claims, err := u.validate(ctx, input.RefreshToken, jwt.TokenRefresh)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	if err := u.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return u.jwtService.GenerateTokenPair(subjectOf(user))
}

// Authenticate resolves an access token into the caller's principal
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (entities.Principal, *jwt.Claims, error) {
	claims, err := u.validate(ctx, token, jwt.TokenAccess)
	if err != nil {
		return nil, nil, err
	}
	p, err := entities.NewPrincipal(claims.UserID, claims.Email, claims.Name, entities.UserRole(claims.Role))
	if err != nil {
		return nil, nil, domainerrors.ErrUnauthorized
	}
	return p, claims, nil
}

// Logout revokes the access token and, when supplied, the refresh token
func (u *AuthUsecase) Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error {
	if access != nil {
		if err := u.revoke(ctx, access); err != nil {
			return err
		}
	}
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateTyped(refreshToken, jwt.TokenRefresh)
	if err != nil {
		// an unusable refresh token needs no revocation
		return nil
	}
	return u.revoke(ctx, claims)
}

// GetCurrentUser returns the caller's user record
func (u *AuthUsecase) GetCurrentUser(ctx context.Context, p entities.Principal) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, p.UserID())
}

// UpdatePassword changes the caller's password after checking the current one
func (u *AuthUsecase) UpdatePassword(ctx context.Context, p entities.Principal, form validation.PasswordForm) error {
	input, fields := validation.ValidatePassword(form)
	if !fields.OK() {
		return domainerrors.Validation(fields)
	}

	user, err := u.userRepo.GetByID(ctx, p.UserID())
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.Validation(map[string]string{"current_password": "Current password is incorrect"})
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, user.ID, hash)
}

// UpdateProfile replaces the caller's editable profile attributes
func (u *AuthUsecase) UpdateProfile(ctx context.Context, p entities.Principal, form validation.ProfileForm) (*entities.User, error) {
	update, fields := validation.ValidateProfile(form)
	if !fields.OK() {
		return nil, domainerrors.Validation(fields)
	}

	old, err := u.userRepo.GetByID(ctx, p.UserID())
	if err != nil {
		return nil, err
	}
	user, err := u.userRepo.Update(ctx, p.UserID(), update)
	if err != nil {
		return nil, err
	}
	publish(ctx, u.feed, updated(entities.TableUsers, user, old))
	return user, nil
}

func (u *AuthUsecase) issue(user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(subjectOf(user))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

func (u *AuthUsecase) validate(ctx context.Context, token string, typ jwt.TokenType) (*jwt.Claims, error) {
	claims, err := u.jwtService.ValidateTyped(token, typ)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}
	if u.blocklist != nil && claims.ID != "" {
		revoked, err := u.blocklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, domainerrors.ErrTokenRevoked
		}
	}
	return claims, nil
}

func (u *AuthUsecase) revoke(ctx context.Context, claims *jwt.Claims) error {
	if u.blocklist == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.Remaining()
	if ttl <= 0 {
		return nil
	}
	return u.blocklist.Revoke(ctx, claims.ID, ttl)
}

func subjectOf(user *entities.User) jwt.Subject {
	return jwt.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	}
}
