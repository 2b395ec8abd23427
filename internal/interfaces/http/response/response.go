package response

import (
	"errors"
	"net/http"

	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Body is the error envelope every failed request returns
type Body struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// List sends a collection with its item count
func List(c *gin.Context, items interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{"items": items, "count": count})
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := resolve(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(appErr.Status, Body{
		Code:    appErr.Code,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, Body{Code: code, Message: message})
}

// resolve maps err onto the AppError rendered to the client
func resolve(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.Unauthorized("Invalid email or password")
	case errors.Is(err, domainerrors.ErrTokenExpired):
		return domainerrors.Unauthorized("Token has expired")
	case errors.Is(err, domainerrors.ErrTokenRevoked):
		return domainerrors.Unauthorized("Token has been revoked")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("Authentication required")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("You do not have permission to perform this action")
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict, "This status change is not allowed", err)
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest("The request is invalid")
	}
	return domainerrors.FromRepository(err)
}
