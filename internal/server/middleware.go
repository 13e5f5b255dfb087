package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	obscontext "github.com/smallbiznis/utilitydesk/internal/observability/context"
	"go.uber.org/zap"
)

const contextIdentityKey = "staff_identity"

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's identity on the gin and request contexts.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.sessions.Parse(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Request = c.Request.WithContext(
			obscontext.WithActor(c.Request.Context(), string(auditdomain.ActorTypeStaff), identity.StaffID),
		)
		c.Next()
	}
}

// RequireCapability lets the request through only when the caller's role
// grants action.
func (s *Server) RequireCapability(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), identity, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// LoginRateLimit throttles /auth/login per client address and username.
// Limiter failures let the request through.
func (s *Server) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.loginLimiter.Enabled() {
			c.Next()
			return
		}

		username := peekUsername(c)
		res, err := s.loginLimiter.Allow(c.Request.Context(), c.ClientIP(), username)
		if err != nil {
			s.log.Warn("login rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			}
			s.metrics.RecordLogin(c.Request.Context(), "rate_limited")
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func identityFromContext(c *gin.Context) (authdomain.Identity, bool) {
	value, ok := c.Get(contextIdentityKey)
	if !ok {
		return authdomain.Identity{}, false
	}
	identity, ok := value.(authdomain.Identity)
	return identity, ok && identity.StaffID != ""
}

// peekUsername reads the username from a login body without consuming it.
func peekUsername(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	var body struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindBodyWithJSON(&body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Username)
}
