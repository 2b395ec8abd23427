package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/validation"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/middleware"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authServiceStub struct {
	signUpFn         func(ctx context.Context, form validation.SignUpForm) (*entities.AuthResponse, error)
	loginFn          func(ctx context.Context, form validation.LoginForm) (*entities.AuthResponse, error)
	refreshFn        func(ctx context.Context, form validation.RefreshForm) (*jwt.TokenPair, error)
	logoutFn         func(ctx context.Context, access *jwt.Claims, refreshToken string) error
	currentUserFn    func(ctx context.Context, p entities.Principal) (*entities.User, error)
	updatePasswordFn func(ctx context.Context, p entities.Principal, form validation.PasswordForm) error
	updateProfileFn  func(ctx context.Context, p entities.Principal, form validation.ProfileForm) (*entities.User, error)
}

func (s authServiceStub) SignUp(ctx context.Context, form validation.SignUpForm) (*entities.AuthResponse, error) {
	return s.signUpFn(ctx, form)
}
func (s authServiceStub) Login(ctx context.Context, form validation.LoginForm) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, form)
}
func (s authServiceStub) Refresh(ctx context.Context, form validation.RefreshForm) (*jwt.TokenPair, error) {
	return s.refreshFn(ctx, form)
}
func (s authServiceStub) Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error {
	return s.logoutFn(ctx, access, refreshToken)
}
func (s authServiceStub) GetCurrentUser(ctx context.Context, p entities.Principal) (*entities.User, error) {
	return s.currentUserFn(ctx, p)
}
func (s authServiceStub) UpdatePassword(ctx context.Context, p entities.Principal, form validation.PasswordForm) error {
	return s.updatePasswordFn(ctx, p, form)
}
func (s authServiceStub) UpdateProfile(ctx context.Context, p entities.Principal, form validation.ProfileForm) (*entities.User, error) {
	return s.updateProfileFn(ctx, p, form)
}

func authRouter(p entities.Principal, stub authServiceStub) *gin.Engine {
	h := NewAuthHandler(stub)
	r := newRouter(p)
	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &jwt.Claims{UserID: investorP.ID})
		c.Next()
	}, h.Logout)
	r.GET("/auth/me", h.Me)
	r.PUT("/auth/password", h.UpdatePassword)
	r.PUT("/auth/profile", h.UpdateProfile)
	return r
}

func TestAuthHandler_SignUp(t *testing.T) {
	stub := authServiceStub{
		signUpFn: func(_ context.Context, form validation.SignUpForm) (*entities.AuthResponse, error) {
			switch form.Email {
			case "taken@example.com":
				return nil, domainerrors.ErrAlreadyExists
			case "bad":
				return nil, domainerrors.Validation(map[string]string{"email": "Enter a valid email address"})
			}
			return &entities.AuthResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User:         &entities.User{ID: investorP.ID, Email: form.Email, Name: form.Name, Role: entities.UserRole(form.Role)},
			}, nil
		},
	}
	r := authRouter(nil, stub)

	w := doJSON(r, http.MethodPost, "/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"Harvest2024","role":"investor"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"access"`)
	assert.Contains(t, w.Body.String(), `"role":"investor"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, http.MethodPost, "/auth/signup", `{"name":"Ada","email":"taken@example.com","password":"Harvest2024","role":"investor"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/signup", `{"email":"bad"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"fields":{"email":"Enter a valid email address"}`)

	w = doJSON(r, http.MethodPost, "/auth/signup", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	stub := authServiceStub{
		loginFn: func(_ context.Context, form validation.LoginForm) (*entities.AuthResponse, error) {
			if form.Password != "Harvest2024" {
				return nil, domainerrors.ErrInvalidCredentials
			}
			return &entities.AuthResponse{AccessToken: "a", RefreshToken: "r"}, nil
		},
	}
	r := authRouter(nil, stub)

	w := doJSON(r, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"Harvest2024"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := authServiceStub{
		refreshFn: func(_ context.Context, form validation.RefreshForm) (*jwt.TokenPair, error) {
			if form.RefreshToken == "reused" {
				return nil, domainerrors.ErrTokenRevoked
			}
			return &jwt.TokenPair{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 900}, nil
		},
	}
	r := authRouter(nil, stub)

	w := doJSON(r, http.MethodPost, "/auth/refresh", `{"refresh_token":"r1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"a2","refresh_token":"r2","expires_in":900}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/auth/refresh", `{"refresh_token":"reused"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	var gotClaims *jwt.Claims
	var gotRefresh string
	stub := authServiceStub{
		logoutFn: func(_ context.Context, access *jwt.Claims, refreshToken string) error {
			gotClaims, gotRefresh = access, refreshToken
			return nil
		},
	}
	r := authRouter(investorP, stub)

	w := doJSON(r, http.MethodPost, "/auth/logout", `{"refresh_token":"r1"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, investorP.ID, gotClaims.UserID)
	assert.Equal(t, "r1", gotRefresh)

	w = doJSON(r, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, gotRefresh)
}

func TestAuthHandler_MeAndProfile(t *testing.T) {
	stub := authServiceStub{
		currentUserFn: func(_ context.Context, p entities.Principal) (*entities.User, error) {
			return &entities.User{ID: p.UserID(), Name: p.DisplayName(), Role: p.Role()}, nil
		},
		updatePasswordFn: func(_ context.Context, _ entities.Principal, form validation.PasswordForm) error {
			if form.CurrentPassword != "Harvest2024" {
				return domainerrors.Validation(map[string]string{"current_password": "Current password is incorrect"})
			}
			return nil
		},
		updateProfileFn: func(_ context.Context, p entities.Principal, form validation.ProfileForm) (*entities.User, error) {
			return &entities.User{ID: p.UserID(), Name: form.Name}, nil
		},
	}
	r := authRouter(farmerP, stub)

	w := doJSON(r, http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"farmer"`)

	w = doJSON(r, http.MethodPut, "/auth/password", `{"current_password":"Harvest2024","new_password":"Harvest2025"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(r, http.MethodPut, "/auth/password", `{"current_password":"nope","new_password":"Harvest2025"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(r, http.MethodPut, "/auth/profile", `{"name":"Femi Ade"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Femi Ade"`)

	anon := authRouter(nil, stub)
	assert.Equal(t, http.StatusUnauthorized, doJSON(anon, http.MethodGet, "/auth/me", "").Code)
}
