package handlers

import (
	"context"
	"net/http"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/middleware"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// AuthService is the account API the auth handler depends on
type AuthService interface {
	SignUp(ctx context.Context, form validation.SignUpForm) (*entities.AuthResponse, error)
	Login(ctx context.Context, form validation.LoginForm) (*entities.AuthResponse, error)
	Refresh(ctx context.Context, form validation.RefreshForm) (*jwt.TokenPair, error)
	Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error
	GetCurrentUser(ctx context.Context, p entities.Principal) (*entities.User, error)
	UpdatePassword(ctx context.Context, p entities.Principal, form validation.PasswordForm) error
	UpdateProfile(ctx context.Context, p entities.Principal, form validation.ProfileForm) (*entities.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp handles user registration
// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var form validation.SignUpForm
	if !bindJSON(c, &form) {
		return
	}

	res, err := h.authService.SignUp(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var form validation.LoginForm
	if !bindJSON(c, &form) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var form validation.RefreshForm
	if !bindJSON(c, &form) {
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pair)
}

// Logout revokes the caller's tokens
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var form validation.RefreshForm
	if c.Request.ContentLength != 0 && !bindJSON(c, &form) {
		return
	}
	claims, _ := middleware.GetClaims(c)

	if err := h.authService.Logout(c.Request.Context(), claims, form.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the current user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// UpdatePassword changes the caller's password
// PUT /api/v1/auth/password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var form validation.PasswordForm
	if !bindJSON(c, &form) {
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), p, form); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateProfile replaces the caller's profile fields
// PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var form validation.ProfileForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), p, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
