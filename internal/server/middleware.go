package server

import (
	"strings"

	"github.com/coursebay/coursebay/internal/identity"
	"github.com/gin-gonic/gin"
)

// HeaderUserID carries the opaque verified user id injected by the identity
// collaborator in front of this service. An empty header means the request is
// anonymous; handlers decide whether that is acceptable.
const HeaderUserID = "X-User-ID"

func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID != "" {
			ctx := identity.WithUserID(c.Request.Context(), userID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
