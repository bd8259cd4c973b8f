package api

import (
	"errors"
	"net/http"

	"minicloud/file-api/auth"
	"minicloud/file-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	res, err := a.Auth.Register(data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "This email is already registered. Please login or use a different email",
				"requestID": requestID,
			})
		case errors.Is(err, validators.ErrEmailEmpty),
			errors.Is(err, validators.ErrEmailInvalid),
			errors.Is(err, validators.ErrPasswordEmpty),
			errors.Is(err, validators.ErrPasswordTooShort),
			errors.Is(err, validators.ErrPasswordTooLong),
			errors.Is(err, validators.ErrPasswordTooWeak):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to register user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":   res.Token,
		"email":   res.User.Email,
		"userId":  res.User.ID,
		"message": "User registered successfully",
	})
}
