package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/service/auth"
	"github.com/consultafacil/portal-api/internal/session"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/httputil"
)

const contextSessionKey = "portal_session"

type AuthMiddleware struct {
	authSvc *auth.Service
}

func NewAuthMiddleware(authSvc *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// Authenticate validates the portal session token, loads the session and
// threads the upstream bearer token through the request context so the API
// client attaches it.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, errors.NewUnauthorized("missing authorization header", nil))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, errors.NewUnauthorized("invalid authorization format", nil))
			c.Abort()
			return
		}

		sess, err := m.authSvc.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			httputil.RespondWithError(c, err)
			c.Abort()
			return
		}

		c.Set(contextSessionKey, sess)
		c.Request = c.Request.WithContext(
			apiclient.WithToken(c.Request.Context(), sess.UpstreamToken))
		c.Next()
	}
}

// RequireRole guards a route group for one portal role.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)
		if sess == nil || sess.User == nil || sess.User.Role != role {
			c.JSON(http.StatusForbidden, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: http.StatusForbidden, Message: "insufficient role"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the authenticated session, or nil.
func SessionFromContext(c *gin.Context) *session.Session {
	if v, exists := c.Get(contextSessionKey); exists {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}
