package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

// storedResponse is what a completed request leaves behind for replays
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware ensures that the same request is not processed twice.
// It must run after AuthMiddleware so keys are scoped per caller.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		owner := "anonymous"
		if p, ok := GetPrincipal(c); ok {
			owner = p.UserID().String()
		}
		storageKey := fmt.Sprintf("idempotency:%s:%s", owner, key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil && val == processingMarker:
			response.Error(c, domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict, "Request already in progress", domainerrors.ErrAlreadyExists))
			return
		case err == nil:
			var stored storedResponse
			if jsonErr := json.Unmarshal([]byte(val), &stored); jsonErr == nil {
				c.Header(IdempotencyHitHeader, "true")
				c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
				c.Abort()
				return
			}
			// unreadable entry, process the request again
			_ = redisDel(ctx, storageKey)
		case !errors.Is(err, goredis.Nil):
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			response.Error(c, domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict, "Request already in progress", domainerrors.ErrAlreadyExists))
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			stored := storedResponse{Status: status}
			if w.body.Len() > 0 {
				stored.Body = json.RawMessage(w.body.Bytes())
			}
			payload, _ := json.Marshal(stored)
			if err := redisSet(ctx, storageKey, string(payload), RetentionDuration); err != nil {
				logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
			}
			return
		}
		// failed requests may be retried with the same key
		_ = redisDel(ctx, storageKey)
	}
}
