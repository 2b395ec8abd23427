package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/jwt"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authenticatorStub func(ctx context.Context, token string) (entities.Principal, *jwt.Claims, error)

func (f authenticatorStub) Authenticate(ctx context.Context, token string) (entities.Principal, *jwt.Claims, error) {
	return f(ctx, token)
}

var investor = entities.InvestorPrincipal{ID: uuid.MustParse("0190a1b2-0000-7000-8000-000000000001"), Email: "ada@example.com", Name: "Ada"}

func tokenAuth(valid string, p entities.Principal) authenticatorStub {
	return func(_ context.Context, token string) (entities.Principal, *jwt.Claims, error) {
		switch token {
		case valid:
			return p, &jwt.Claims{UserID: p.UserID()}, nil
		case "expired":
			return nil, nil, domainerrors.ErrTokenExpired
		case "revoked":
			return nil, nil, domainerrors.ErrTokenRevoked
		}
		return nil, nil, domainerrors.ErrUnauthorized
	}
}

func newAuthRouter(auth Authenticator, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(auth)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		_, hasClaims := GetClaims(c)
		userID, _ := c.Request.Context().Value(logger.UserIDKey).(string)
		c.JSON(http.StatusOK, gin.H{"role": p.Role(), "claims": hasClaims, "user_id": userID})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter(tokenAuth("good", investor))

	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{name: "missing header", status: http.StatusUnauthorized, body: "Authorization header is required"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer expired", status: http.StatusUnauthorized, body: "Token has expired"},
		{name: "revoked token", header: "Bearer revoked", status: http.StatusUnauthorized, body: "Token has been revoked"},
		{name: "valid header", header: "Bearer good", status: http.StatusOK, body: `"role":"investor"`},
		{name: "valid query token", query: "?access_token=good", status: http.StatusOK, body: `"claims":true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Contains(t, w.Body.String(), tt.body)
			}
		})
	}
}

func TestAuthMiddleware_AddsUserToRequestContext(t *testing.T) {
	r := newAuthRouter(tokenAuth("good", investor))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, "Bearer good")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), investor.ID.String())
}

func TestRequireRole(t *testing.T) {
	farmer := entities.FarmerPrincipal{ID: uuid.New(), Name: "Femi"}
	admin := entities.AdminPrincipal{ID: uuid.New(), Name: "Root"}

	tests := []struct {
		name      string
		principal entities.Principal
		guard     gin.HandlerFunc
		status    int
	}{
		{"farmer allowed", farmer, RequireFarmer(), http.StatusOK},
		{"investor blocked from farmer route", investor, RequireFarmer(), http.StatusForbidden},
		{"investor allowed", investor, RequireInvestor(), http.StatusOK},
		{"admin allowed", admin, RequireAdmin(), http.StatusOK},
		{"farmer blocked from admin route", farmer, RequireAdmin(), http.StatusForbidden},
		{"either role", admin, RequireRole(entities.UserRoleFarmer, entities.UserRoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tokenAuth("good", tt.principal), tt.guard)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set(AuthorizationHeader, "Bearer good")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPrincipalAndClaims_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetPrincipal(c)
	assert.False(t, ok)
	_, ok = GetClaims(c)
	assert.False(t, ok)

	c.Set(PrincipalKey, "not a principal")
	_, ok = GetPrincipal(c)
	assert.False(t, ok)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		fromCtx, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, c.GetString(RequestIDKey)+"|"+fromCtx)
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id+"|"+id, w.Body.String())
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123|req-123", w.Body.String())
	})
}

func TestLoggerMiddleware_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggerMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?access_token=secret", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/projects/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/projects/:id", "204")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/abc", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}
