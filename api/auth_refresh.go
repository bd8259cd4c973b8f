package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) AuthRefresh(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid token format",
			"requestID": requestID,
		})
		return
	}

	fresh, email, err := a.Auth.Refresh(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid token",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   fresh,
		"email":   email,
		"message": "Token refreshed successfully",
	})
}
