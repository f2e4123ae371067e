package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the client supplied retry key
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"

	idempotencyProcessing = "PROCESSING"
	idempotencyLockTTL    = 30 * time.Second
	idempotencyResultTTL  = 24 * time.Hour
)

// storedResponse is the cached outcome of a completed request
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response body so it can be stored
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a state-changing request that
// is retried with the same Idempotency-Key. Requests without the header, or
// with Redis unavailable, pass straight through.
func Idempotency(client *redis.Client, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		owner := "anonymous"
		if userCtx, ok := GetUserContext(c); ok {
			owner = userCtx.UserID.String()
		}
		idemKey := fmt.Sprintf("idempotency:%s:%s", owner, key)
		ctx := context.WithoutCancel(c.Request.Context())
		log := logger.WithFields(logrus.Fields{"idempotency_key": key, "path": c.Request.URL.Path})

		val, err := client.Get(ctx, idemKey).Result()
		switch {
		case err == nil:
			replay(c, val, log)
			return
		case !errors.Is(err, redis.Nil):
			log.WithError(err).Warn("Idempotency store unavailable, processing request")
			c.Next()
			return
		}

		acquired, err := client.SetNX(ctx, idemKey, idempotencyProcessing, idempotencyLockTTL).Result()
		if err != nil {
			log.WithError(err).Warn("Idempotency lock failed, processing request")
			c.Next()
			return
		}
		if !acquired {
			concurrent(c)
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 {
			if err := client.Del(ctx, idemKey).Err(); err != nil {
				log.WithError(err).Warn("Failed to release idempotency key")
			}
			return
		}

		record, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		})
		if err != nil {
			log.WithError(err).Warn("Failed to encode idempotent response")
			return
		}
		if err := client.Set(ctx, idemKey, record, idempotencyResultTTL).Err(); err != nil {
			log.WithError(err).Warn("Failed to store idempotent response")
		}
	}
}

func replay(c *gin.Context, val string, log *logrus.Entry) {
	if val == idempotencyProcessing {
		concurrent(c)
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		log.WithError(err).Warn("Corrupt idempotency record")
		concurrent(c)
		return
	}

	contentType := stored.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Header(IdempotencyReplayedHeader, "true")
	c.Data(stored.Status, contentType, stored.Body)
	c.Abort()
}

func concurrent(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{
		"error":   "conflict",
		"message": "A request with this Idempotency-Key is already being processed",
		"code":    "IDEMPOTENCY_IN_PROGRESS",
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
