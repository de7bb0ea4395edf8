package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"technuob.com/atomlift/web/common"
)

// UserKey is where Authentication stores the authenticated user in the gin context.
const UserKey = "user"

// TokenLookup resolves a token to its user.
type TokenLookup func(token string) (user any, ok bool)

// Authentication accepts "Authorization: Token <t>" (and "Bearer <t>") and rejects everything else
// with 401 and a DRF style {"detail"} body.
func Authentication(lookup TokenLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewDetailResponse("Authentication credentials were not provided."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || (!strings.EqualFold(parts[0], "Token") && !strings.EqualFold(parts[0], "Bearer")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewDetailResponse("Invalid token header."))
			return
		}

		user, ok := lookup(strings.TrimSpace(parts[1]))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewDetailResponse("Invalid token."))
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}
