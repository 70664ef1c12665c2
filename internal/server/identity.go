package server

import (
	"strings"

	obsctx "github.com/ahmedooo1/nfeat/internal/observability/context"
	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// identityMiddleware lifts the identity the upstream gateway injected into
// the request context. Authentication itself happens upstream; a request
// without a resolvable identity is rejected.
func (s *Server) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if _, err := profiledomain.ParseID(raw); err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set("user_id", raw)
		c.Request = c.Request.WithContext(obsctx.WithUserID(c.Request.Context(), raw))
		c.Next()
	}
}

// currentUserID returns the authenticated user's id. The middleware already
// validated the format.
func (s *Server) currentUserID(c *gin.Context) (snowflake.ID, error) {
	raw := obsctx.UserIDFromGin(c)
	if raw == "" {
		return 0, ErrUnauthorized
	}
	id, err := profiledomain.ParseID(raw)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return id, nil
}
