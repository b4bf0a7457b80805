package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"success":true}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"success":true}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append([]byte{0, 0, 0, 200, 0, 0, 1, 0}, '{'))
	assert.False(t, ok, "header length past the end")
}

func TestCacheKey(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()
	ctxFor := func(target string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/events/:id")
		return c
	}

	a := cacheKey(cfg, "0", ctxFor("/v1/events/1"))
	b := cacheKey(cfg, "0", ctxFor("/v1/events/2"))
	assert.NotEqual(t, a, b, "distinct ids share a route pattern")
	assert.Equal(t, a, cacheKey(cfg, "0", ctxFor("/v1/events/1")))
	assert.NotEqual(t, a, cacheKey(cfg, "1", ctxFor("/v1/events/1")), "a new generation orphans old keys")
	assert.Contains(t, a, "cache:0:")
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, err := cw.Write([]byte("abcdef"))
	require.NoError(t, err)

	assert.Equal(t, "abcdef", rec.Body.String())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.EqualValues(t, 6, cw.size)
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	called := 0
	h := func(c echo.Context) error { called++; return c.NoContent(http.StatusNoContent) }
	rec := serve(t, h, "", NewRedisCache(config.CacheConfig{}, nil), NewCacheInvalidator(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, called)
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/events", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/events")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	assert.Equal(t, "rl:ip:10.0.0.7:user:anon:route:POST /v1/events", rateKey(cfg, c))

	c.Set(ContextUserID, "u1")
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:u1", rateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.EqualValues(t, 3, asInt64(int64(3)))
	assert.EqualValues(t, 4, asInt64(4.0))
	assert.EqualValues(t, 5, asInt64("5"))
	assert.EqualValues(t, 0, asInt64(nil))
}
