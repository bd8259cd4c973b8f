package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FileDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, ok := fileIDParam(c)
	if !ok {
		return
	}

	if err := a.Files.Delete(c.Request.Context(), id, userID); err != nil {
		a.fileError(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted successfully",
	})
}

func (a *API) fileError(c *gin.Context, err error, requestID string) {
	switch {
	case isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
	case isAccessDenied(err):
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Access denied",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("File operation failed", zap.Error(err), zap.String("requestID", requestID))
	}
}
