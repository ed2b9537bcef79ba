package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type stubTokens struct {
	userID uuid.UUID
	role   string
	err    error
}

func (s stubTokens) ParseAccess(string) (uuid.UUID, string, error) {
	return s.userID, s.role, s.err
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	newRouter := func(tokens TokenParser) *gin.Engine {
		r := gin.New()
		r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
			actor, ok := ActorFrom(c)
			require.True(t, ok)
			c.String(http.StatusOK, actor.UserID.String()+":"+string(actor.Role))
		})
		return r
	}

	t.Run("no header", func(t *testing.T) {
		w := serve(newRouter(stubTokens{userID: userID}), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := serve(newRouter(stubTokens{err: errors.New("expired")}), http.MethodGet, "/me", bearer("x"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		w := serve(newRouter(stubTokens{userID: userID, role: "superuser"}), http.MethodGet, "/me", bearer("x"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("empty role defaults to user", func(t *testing.T) {
		w := serve(newRouter(stubTokens{userID: userID}), http.MethodGet, "/me", bearer("x"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String()+":user", w.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tokens := stubTokens{userID: uuid.New(), role: "user"}
	r.GET("/admin", AuthMiddleware(tokens), RequireRole(valueobject.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodGet, "/admin", bearer("x"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := gin.New()
	admin.GET("/admin", AuthMiddleware(stubTokens{userID: uuid.New(), role: "admin"}), RequireRole(valueobject.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w = serve(admin, http.MethodGet, "/admin", bearer("x"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIDValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/listings/:id", IDValidator("id"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/listings/42", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/listings/0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/listings/abc", nil).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	r := gin.New()
	r.GET("/ping", RateLimitMiddleware(store, 2, time.Minute, ByClientIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodGet, "/ping", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := serve(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimitByActorSeparatesUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: "test", CleanUpInterval: time.Minute})
	first, second := uuid.New(), uuid.New()

	limited := func(userID uuid.UUID) *gin.Engine {
		r := gin.New()
		r.POST("/reports", AuthMiddleware(stubTokens{userID: userID}), RateLimitMiddleware(store, 1, time.Minute, ByActor("report")), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return r
	}

	assert.Equal(t, http.StatusCreated, serve(limited(first), http.MethodPost, "/reports", bearer("x")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(limited(first), http.MethodPost, "/reports", bearer("x")).Code)
	assert.Equal(t, http.StatusCreated, serve(limited(second), http.MethodPost, "/reports", bearer("x")).Code)
}

func TestNewLimiterStoreWithoutRedis(t *testing.T) {
	store, closeFn, err := NewLimiterStore(t.Context(), "")
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NoError(t, closeFn())
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", http.Header{"Origin": []string{"http://localhost:3000"}})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/x", http.Header{"Origin": []string{"http://evil.example"}})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOriginAllowed(t *testing.T) {
	check := OriginAllowed([]string{"https://site.example"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://site.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://other.example")
	assert.False(t, check(req))
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperror.ErrListingNotFound)
	})
	r.GET("/internal", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})
	r.GET("/written", func(c *gin.Context) {
		c.String(http.StatusTeapot, "ok")
		_ = c.Error(apperror.ErrForbidden)
	})

	w := serve(r, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = serve(r, http.MethodGet, "/internal", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	w = serve(r, http.MethodGet, "/written", nil)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
