package middleware

import (
	"errors"
	"net/http"

	"softacc-backend/internal/delivery/http/response"
	"softacc-backend/pkg/apperror"
	"softacc-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MsgUnexpectedError is sent for any error that is not an *apperror.AppError.
const MsgUnexpectedError = "Es ist ein Server-Fehler aufgetreten"

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				logger.Log.Warn("Request failed",
					"kind", appErr.Kind.String(),
					"status", appErr.Code,
					"error", appErr.Err,
					"path", c.FullPath(),
					"request_id", c.GetString("RequestID"),
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Fields)
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("Unexpected error",
			"error", err,
			"path", c.FullPath(),
			"request_id", c.GetString("RequestID"),
		)
		response.Error(c, http.StatusInternalServerError, MsgUnexpectedError, nil)
	}
}
