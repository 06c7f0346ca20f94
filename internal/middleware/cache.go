package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/innovation-hub/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// generationKey holds the counter that namespaces every cached entry.
func generationKey(prefix string) string { return prefix + ":gen" }

// cacheKey combines the current generation with the route and query.
func cacheKey(prefix string, gen int64, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(c.Path() + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%d:%x", prefix, gen, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful GET responses of read-mostly endpoints
// (leaderboards, top ideas, statistics).  Stored entries carry headers and
// body so a hit is byte-identical to the original response.  Keys embed the
// generation counter maintained by InvalidateCache, so any write makes every
// older entry unreachable.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			gen, err := rdb.Get(ctx, generationKey(cfg.Prefix)).Int64()
			if err != nil && err != redis.Nil {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, gen, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || (cw.limit > 0 && cw.size > cw.limit) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rdb.SetEx(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err()
			}
			return nil
		}
	}
}

// InvalidateCache bumps the cache generation after every successful
// non-GET request.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			m := c.Request().Method
			if m == http.MethodGet || m == http.MethodHead {
				return err
			}
			if err == nil && c.Response().Status < http.StatusBadRequest {
				if ierr := rdb.Incr(context.WithoutCancel(c.Request().Context()), generationKey(cfg.Prefix)).Err(); ierr != nil {
					c.Logger().Warnf("[cache] invalidate failed: %v", ierr)
				}
			}
			return err
		}
	}
}
