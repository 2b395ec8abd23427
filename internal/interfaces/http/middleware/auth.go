package middleware

import (
	"context"
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/jwt"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// AccessTokenQuery carries the token for clients that cannot set headers (WebSocket)
	AccessTokenQuery = "access_token"
	// PrincipalKey is the context key for the authenticated principal
	PrincipalKey = "principal"
	// ClaimsKey is the context key for the validated access token claims
	ClaimsKey = "claims"
)

// Authenticator resolves an access token into the caller's principal
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entities.Principal, *jwt.Claims, error)
}

// AuthMiddleware creates a new authentication middleware
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, domainerrors.Unauthorized("Authorization header is required"))
			return
		}

		principal, claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug(c.Request.Context(), "Authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Error(c, err)
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(ClaimsKey, claims)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, principal.UserID().String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		token := strings.TrimSpace(c.Query(AccessTokenQuery))
		return token, token != ""
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// GetPrincipal gets the authenticated principal from context
func GetPrincipal(c *gin.Context) (entities.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(entities.Principal)
	return p, ok
}

// GetClaims gets the access token claims from context
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, exists := GetPrincipal(c)
		if !exists {
			response.Error(c, domainerrors.Unauthorized("Authentication required"))
			return
		}

		for _, role := range roles {
			if p.Role() == role {
				c.Next()
				return
			}
		}

		response.Error(c, domainerrors.Forbidden("Insufficient permissions"))
	}
}

// RequireFarmer creates a middleware that requires the farmer role
func RequireFarmer() gin.HandlerFunc {
	return RequireRole(entities.UserRoleFarmer)
}

// RequireInvestor creates a middleware that requires the investor role
func RequireInvestor() gin.HandlerFunc {
	return RequireRole(entities.UserRoleInvestor)
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleAdmin)
}
