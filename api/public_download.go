package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"minicloud/file-api/files"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicDownload serves a shared file to anyone holding the short code.
// This is the only unauthenticated data path in the service.
func (a *API) PublicDownload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	pub, err := a.Files.ResolvePublic(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve public download", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%s",
		pub.Disposition, strconv.Quote(pub.Filename)))
	c.Data(http.StatusOK, pub.ContentType, pub.Data)
}
