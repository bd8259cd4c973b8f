package api

import (
	"errors"
	"net/http"
	"strings"

	"minicloud/file-api/auth"

	"github.com/gin-gonic/gin"
)

// bearerToken pulls the raw token out of the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	return strings.TrimPrefix(header, "Bearer "), true
}

func (a *API) AuthValidate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid token format",
			"requestID": requestID,
		})
		return
	}

	identity, err := a.Auth.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid token",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"email":  identity.Email,
		"userId": identity.UserID,
	})
}
