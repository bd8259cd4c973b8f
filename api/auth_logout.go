package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthLogout exists for client symmetry. Tokens are stateless so there
// is nothing to invalidate server-side.
func (a *API) AuthLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}

func (a *API) AuthHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"service":   "Authentication Service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
