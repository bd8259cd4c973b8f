package api

import (
	"errors"
	"net/http"
	"strconv"

	"minicloud/file-api/files"

	"github.com/gin-gonic/gin"
)

func fileIDParam(c *gin.Context) (uint, bool) {
	requestID := c.MustGet("requestID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid file ID",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}

func isNotFound(err error) bool {
	return errors.Is(err, files.ErrNotFound)
}

func isAccessDenied(err error) bool {
	return errors.Is(err, files.ErrAccessDenied)
}

func (a *API) FileShare(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, ok := fileIDParam(c)
	if !ok {
		return
	}

	record, err := a.Files.Share(id, userID)
	if err != nil {
		a.fileError(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (a *API) FileRevokeShare(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, ok := fileIDParam(c)
	if !ok {
		return
	}

	if _, err := a.Files.RevokeShare(id, userID); err != nil {
		a.fileError(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File sharing revoked successfully",
	})
}

func (a *API) FilePublicURL(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, ok := fileIDParam(c)
	if !ok {
		return
	}

	record, err := a.Files.Get(id, userID)
	if err != nil {
		a.fileError(c, err, requestID)
		return
	}

	if !record.Shared() {
		c.JSON(http.StatusOK, gin.H{
			"message": "File not shared yet",
		})
		return
	}

	c.JSON(http.StatusOK, record)
}
