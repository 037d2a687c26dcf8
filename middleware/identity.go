package middleware

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey    = "user_id"
	userIDCookie = "uid"
	userIDHeader = "X-User-ID"

	cookieMaxAge = 400 * 24 * 60 * 60 // practical browser cap
)

// IdentityResolver supplies a user identifier for a request. Resolvers are
// tried in order; the first hit wins. This is identification, not
// authentication: the id only scopes records.
type IdentityResolver interface {
	Resolve(c *gin.Context) (string, bool)
}

// HeaderResolver reads the explicit X-User-ID header.
type HeaderResolver struct{}

func (HeaderResolver) Resolve(c *gin.Context) (string, bool) {
	id := c.GetHeader(userIDHeader)
	return id, id != ""
}

// CookieResolver reads the persisted uid cookie.
type CookieResolver struct{}

func (CookieResolver) Resolve(c *gin.Context) (string, bool) {
	id, err := c.Cookie(userIDCookie)
	return id, err == nil && id != ""
}

// PlatformResolver polls an embedded-platform identity supplier (e.g. a
// Telegram Web App handshake) that may not have delivered yet. The poll is
// bounded: after Attempts tries it gives up and lets the chain fall through
// to the local fallback.
type PlatformResolver struct {
	Supplier func(c *gin.Context) (string, bool)
	Attempts int
	Delay    time.Duration
}

func (r PlatformResolver) Resolve(c *gin.Context) (string, bool) {
	if r.Supplier == nil {
		return "", false
	}
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if id, ok := r.Supplier(c); ok && id != "" {
			return id, true
		}
		if i < attempts-1 {
			time.Sleep(r.Delay)
		}
	}
	return "", false
}

// PlatformResolverFromEnv builds a PlatformResolver with the configured
// retry bound (IDENTITY_POLL_ATTEMPTS, default 20) and delay
// (IDENTITY_POLL_DELAY_MS, default 150).
func PlatformResolverFromEnv(supplier func(c *gin.Context) (string, bool)) PlatformResolver {
	attempts := 20
	if v, err := strconv.Atoi(os.Getenv("IDENTITY_POLL_ATTEMPTS")); err == nil && v > 0 {
		attempts = v
	}
	delay := 150 * time.Millisecond
	if v, err := strconv.Atoi(os.Getenv("IDENTITY_POLL_DELAY_MS")); err == nil && v > 0 {
		delay = time.Duration(v) * time.Millisecond
	}
	return PlatformResolver{Supplier: supplier, Attempts: attempts, Delay: delay}
}

// Identity resolves a user id through the given chain and stores it on the
// context. When every resolver misses, a fresh uuid is minted and persisted
// as a cookie so the same browser keeps its identity.
func Identity(resolvers ...IdentityResolver) gin.HandlerFunc {
	if len(resolvers) == 0 {
		resolvers = []IdentityResolver{HeaderResolver{}, CookieResolver{}}
	}
	return func(c *gin.Context) {
		for _, r := range resolvers {
			if id, ok := r.Resolve(c); ok {
				c.Set(userIDKey, id)
				c.Next()
				return
			}
		}

		id := uuid.NewString()
		c.SetCookie(userIDCookie, id, cookieMaxAge, "/", "", false, true)
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the resolved identity for the request. An explicit userId
// in the body or query always wins over the middleware's resolution, so
// callers pass their own first and use this as the fallback.
func UserID(c *gin.Context) string {
	if id, ok := c.Get(userIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
