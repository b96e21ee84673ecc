package middleware

import (
	"errors"
	"net/http"

	"recruitment-portal-backend/internal/delivery/http/response"
	"recruitment-portal-backend/pkg/apperror"
	"recruitment-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the gin context into the JSON
// envelope. Internal errors are logged server-side and never leak details to
// the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("request failed",
					"path", c.Request.URL.Path,
					"status", appErr.Code,
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("unhandled error", "path", c.Request.URL.Path, "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
