package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityRouter(resolvers ...IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity(resolvers...))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func TestIdentity_HeaderWins(t *testing.T) {
	r := identityRouter(HeaderResolver{}, CookieResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "explicit-id")
	req.AddCookie(&http.Cookie{Name: "uid", Value: "cookie-id"})
	r.ServeHTTP(w, req)

	assert.Equal(t, "explicit-id", w.Body.String())
}

func TestIdentity_CookieFallback(t *testing.T) {
	r := identityRouter(HeaderResolver{}, CookieResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "uid", Value: "cookie-id"})
	r.ServeHTTP(w, req)

	assert.Equal(t, "cookie-id", w.Body.String())
}

func TestIdentity_MintsAndPersists(t *testing.T) {
	r := identityRouter(HeaderResolver{}, CookieResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	minted := w.Body.String()
	require.NotEmpty(t, minted)

	// The minted id comes back as a cookie so the browser keeps it.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	found := false
	for _, c := range cookies {
		if c.Name == "uid" {
			found = true
			assert.Equal(t, minted, c.Value)
		}
	}
	assert.True(t, found)
}

func TestPlatformResolver_BoundedRetry(t *testing.T) {
	calls := 0
	resolver := PlatformResolver{
		Supplier: func(c *gin.Context) (string, bool) {
			calls++
			return "", false
		},
		Attempts: 5,
		Delay:    time.Millisecond,
	}

	r := identityRouter(resolver, HeaderResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "fallback-id")
	r.ServeHTTP(w, req)

	assert.Equal(t, 5, calls, "the poll gives up after the configured bound")
	assert.Equal(t, "fallback-id", w.Body.String(), "the chain falls through to the next resolver")
}

func TestPlatformResolverFromEnv_ReadsBounds(t *testing.T) {
	t.Setenv("IDENTITY_POLL_ATTEMPTS", "7")
	t.Setenv("IDENTITY_POLL_DELAY_MS", "5")

	resolver := PlatformResolverFromEnv(func(c *gin.Context) (string, bool) { return "", false })
	assert.Equal(t, 7, resolver.Attempts)
	assert.Equal(t, 5*time.Millisecond, resolver.Delay)
}

func TestPlatformResolverFromEnv_Defaults(t *testing.T) {
	t.Setenv("IDENTITY_POLL_ATTEMPTS", "")
	t.Setenv("IDENTITY_POLL_DELAY_MS", "")

	resolver := PlatformResolverFromEnv(nil)
	assert.Equal(t, 20, resolver.Attempts)
	assert.Equal(t, 150*time.Millisecond, resolver.Delay)
}

func TestPlatformResolver_DeliversWhenSupplied(t *testing.T) {
	calls := 0
	resolver := PlatformResolver{
		Supplier: func(c *gin.Context) (string, bool) {
			calls++
			if calls == 3 {
				return "platform-id", true
			}
			return "", false
		},
		Attempts: 20,
		Delay:    time.Millisecond,
	}

	r := identityRouter(resolver)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, "platform-id", w.Body.String())
	assert.Equal(t, 3, calls)
}
