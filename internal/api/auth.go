package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const adminContextKey = "admin"

// authMiddleware rejects requests without a valid bearer token and stores
// the resolved admin in the gin context
func authMiddleware(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				log.Error().Err(err).Msg("Token authentication failed")
			}
			respondError(c, log, err)
			c.Abort()
			return
		}

		c.Set(adminContextKey, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentAdmin returns the admin stored by authMiddleware
func currentAdmin(c *gin.Context) *models.AdminUser {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.AdminUser)
	return user
}

// maxTrackedClients bounds the limiter table; it is reset when exceeded
const maxTrackedClients = 10000

// ipRateLimiter keeps one token bucket per client IP
type ipRateLimiter struct {
	enabled bool
	limit   rate.Limit
	burst   int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// newIPRateLimiter allows perMinute requests per client; perMinute <= 0 disables limiting
func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute <= 0 {
		return &ipRateLimiter{}
	}
	return &ipRateLimiter{
		enabled:  true,
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter.Allow()
}

func (l *ipRateLimiter) middleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			log.Warn().Str("client_ip", c.ClientIP()).Str("path", c.FullPath()).Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, please try again later"})
			return
		}
		c.Next()
	}
}
