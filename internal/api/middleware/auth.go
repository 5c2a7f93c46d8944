package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/princeprakhar/tours-backend/internal/utils"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"

	tokenCookie = "jwt"
)

// AuthMiddleware accepts a Bearer token or the jwt cookie.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString, _ = c.Cookie(tokenCookie)
		}
		if tokenString == "" {
			utils.SendUnauthorized(c, "You are not logged in! Please log in to get access.")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RestrictTo lets through only the listed roles. It must follow
// AuthMiddleware.
func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(ContextRole)) {
			utils.SendForbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}
