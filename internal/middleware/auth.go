package middleware

import (
	"context"
	"strings"

	"biolink/internal/models"
	"biolink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey    = "user"
	SessionTokenKey = "token"
)

// SessionValidator resolves a session token to its user. A nil user with a
// nil error means the token is not valid.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.User, error)
}

// SessionToken returns the caller's token: a Bearer Authorization header
// wins over the cookie session.
func SessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, ok := sessions.Default(c).Get(SessionTokenKey).(string); ok {
		return token
	}
	return ""
}

// LoadUser resolves the session and stores the user in the context. Requests
// without a valid session continue anonymously.
func LoadUser(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := validator.ValidateSession(c.Request.Context(), SessionToken(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if user != nil {
			c.Set(CheckUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// AuthRequired rejects anonymous requests.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			_ = c.Error(services.ErrUnauthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired rejects callers without the admin role.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			_ = c.Error(services.ErrUnauthenticated)
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			_ = c.Error(services.NewError(services.ErrForbidden, "Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
