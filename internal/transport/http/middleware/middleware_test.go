package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"store-rating/internal/core/auth"
	"store-rating/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type stubRoles map[string]domain.Role

func (s stubRoles) Resolve(_ context.Context, uid string) (domain.Role, bool, error) {
	if uid == "broken" {
		return "", false, errors.New("db down")
	}
	r, ok := s[uid]
	return r, ok, nil
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("x", 200))
	w = serve(r, req)
	assert.Len(t, w.Body.String(), 36)
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "idp", TTL: time.Hour}
	r := gin.New()
	r.Use(AuthJWT(j, stubRoles{"u1": domain.RoleOwner}, zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		a, ok := ActorFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, a.ID+"/"+string(a.Role))
	})
	call := func(uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if uid != "" {
			tok, err := j.Issue(uid)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		return serve(r, req)
	}

	assert.Equal(t, http.StatusUnauthorized, call("").Code)

	w := call("u1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1/store_owner", w.Body.String())

	w = call("fresh")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fresh/", w.Body.String())

	assert.Equal(t, http.StatusInternalServerError, call("broken").Code)
}

func TestRequireRole(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "idp", TTL: time.Hour}
	r := gin.New()
	r.Use(AuthJWT(j, stubRoles{"a": domain.RoleAdmin, "n": domain.RoleNormal}, zap.NewNop()), RequireRole(domain.RoleAdmin))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for uid, want := range map[string]int{"a": http.StatusNoContent, "n": http.StatusForbidden, "x": http.StatusForbidden} {
		tok, err := j.Issue(uid)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		assert.Equal(t, want, serve(r, req).Code, uid)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := func(ip string) int {
		q := httptest.NewRequest(http.MethodGet, "/", nil)
		q.RemoteAddr = ip + ":1234"
		return serve(r, q).Code
	}
	assert.Equal(t, http.StatusNoContent, req("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, req("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, req("10.0.0.2"))
}

func TestConcurrencyLimit_BusyWhenContextEnds(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/", func(c *gin.Context) {
		if c.Query("hold") != "" {
			close(entered)
			<-release
		}
		c.Status(http.StatusNoContent)
	})

	done := make(chan int)
	go func() { done <- serve(r, httptest.NewRequest(http.MethodGet, "/?hold=1", nil)).Code }()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(release)
	assert.Equal(t, http.StatusNoContent, <-done)
}
