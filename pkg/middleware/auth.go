package middleware

import (
	"errors"
	"net/http"
	"strings"

	"minicloud/file-api/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware checks the Authorization header for a bearer token,
// resolves it to a user and sets userID and userEmail on the context.
func NewAuthMiddleware(a *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid token format",
				"requestID": requestID,
			})
			return
		}

		identity, err := a.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "User not found",
					"requestID": requestID,
				})
			case errors.Is(err, auth.ErrAccountDisabled):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":     "Account is disabled",
					"requestID": requestID,
				})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Invalid token",
					"requestID": requestID,
				})

				zap.L().Debug("Token rejected", zap.Error(err), zap.String("requestID", requestID))
			}
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("userEmail", identity.Email)
		c.Next()
	}
}
