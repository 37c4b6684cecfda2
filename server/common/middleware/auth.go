package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	commonlog "community_server/server/common/log"
	"community_server/server/common/transport/httpresp"
)

const (
	ContextSessionToken = "auth_session_token"
	ContextUserID       = "auth_user_id"
	ContextRole         = "auth_role"
)

// ErrUnauthenticated is what a SessionResolver wraps when the token names no
// live session or user. Other resolver errors are backend failures.
var ErrUnauthenticated = errors.New("unauthenticated")

// SessionResolver maps a session cookie value to the current user and role.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (userID, role string, err error)
}

func SessionRequired(cookieName string, resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
			return
		}
		userID, role, err := resolver.ResolveSession(c.Request.Context(), token)
		if errors.Is(err, ErrUnauthenticated) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
			return
		}
		if err != nil {
			commonlog.Errorf("resolve session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpresp.NewErrorResponse(httpresp.ErrInternal))
			return
		}
		c.Set(ContextSessionToken, token)
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRoles admits only the listed roles. There is no ordering between
// roles; every allowed role must be named.
func RequireRoles[R ~string](roles ...R) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, role := range roles {
		allowed[strings.TrimSpace(string(role))] = struct{}{}
	}
	return func(c *gin.Context) {
		rawRole, ok := c.Get(ContextRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, httpresp.NewErrorResponse(httpresp.ErrForbidden))
			return
		}
		role, ok := rawRole.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, httpresp.NewErrorResponse(httpresp.ErrForbidden))
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, httpresp.NewErrorResponse(httpresp.ErrInsufficientRole))
			return
		}
		c.Next()
	}
}
