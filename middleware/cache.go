package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const cacheMaxBodyBytes = 1 << 20

// bodyCapture forwards the response to the client while keeping a copy small
// enough to cache.
type bodyCapture struct {
	gin.ResponseWriter
	buf      bytes.Buffer
	overflow bool
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	if !w.overflow {
		if w.buf.Len()+len(b) <= cacheMaxBodyBytes {
			w.buf.Write(b)
		} else {
			w.overflow = true
			w.buf.Reset()
		}
	}
	return w.ResponseWriter.Write(b)
}

// CacheResponse caches successful GET responses for public listings in Redis.
// A nil client disables caching entirely.
func CacheResponse(client *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		sum := sha1.Sum([]byte(c.FullPath() + "?" + c.Request.URL.RawQuery))
		key := fmt.Sprintf("cache:%x", sum)

		if cached, err := client.Get(c.Request.Context(), key).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		if capture.Status() == http.StatusOK && !capture.overflow && capture.buf.Len() > 0 {
			client.Set(c.Request.Context(), key, capture.buf.Bytes(), ttl)
		}
	}
}
