package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
)

// bodyRecorder mirrors the response body into a buffer while streaming
// it to the client, up to a configurable byte limit. Responses larger
// than the limit are served normally but never cached.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	overflow bool
	limit    int64
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	if !br.overflow {
		if br.limit > 0 && int64(br.buf.Len()+len(b)) > br.limit {
			br.overflow = true
			br.buf.Reset()
		} else {
			br.buf.Write(b)
		}
	}
	return br.ResponseWriter.Write(b)
}

func cacheKey(prefix string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.Method + ":" + c.Path() + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}

// ResponseCache caches successful read-only responses in Redis. Room
// listings and slot grids change only when bookings do, so a short TTL
// absorbs bursts of identical queries without serving stale data for
// long. Only methods listed in the config (GET by default) are
// considered, and only 200 responses are stored.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			br := &bodyRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = br
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if br.status == http.StatusOK && !br.overflow && br.buf.Len() > 0 {
				// Detached context: the request may already be done.
				_ = rdb.SetEx(context.Background(), key, br.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
