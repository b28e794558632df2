package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"hrms-lite/internal/shared/apperror"
	"hrms-lite/internal/shared/contextutil"
	"hrms-lite/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	IdempotencyField  = "idempotency_key"

	idempotencyLockTTL = 30 * time.Second
	idempotencyDoneTTL = 24 * time.Hour
)

// Idempotency guards form submissions against double posts (double clicks,
// reloads after a POST). The key comes from the Idempotency-Key header or the
// hidden idempotency_key form field. A key that already completed redirects
// to redirectTo instead of resubmitting; a key still in progress gets 409.
// Without redis the middleware is a pass-through.
func Idempotency(rdb *redis.Client, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" {
			idempKey = c.PostForm(IdempotencyField)
		}
		if idempKey == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L().Named("middleware.idempotency"))
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("session_id"), idempKey)
		lockKey := cacheKey + ":lock"

		// 1. Sudah selesai sebelumnya: jangan kirim ulang ke backend
		if _, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		// 2. ATOMIC LOCK (SetNX): request kembar yang masih berjalan ditolak
		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.AbortError(c, http.StatusConflict, apperror.CodeConflict, "This form is already being submitted, please wait.")
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			if err := rdb.Set(ctx, cacheKey, "done", idempotencyDoneTTL).Err(); err != nil {
				log.Warn("idempotency mark failed", zap.Error(err))
			}
		}
		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			log.Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}
