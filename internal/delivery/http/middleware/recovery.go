package middleware

import (
	"net/http"

	"softacc-backend/internal/delivery/http/response"
	"softacc-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into the same generic 500 body ErrorHandler writes.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.Error("Panic recovered",
			"panic", recovered,
			"path", c.FullPath(),
			"request_id", c.GetString("RequestID"),
		)
		response.Error(c, http.StatusInternalServerError, MsgUnexpectedError, nil)
		c.Abort()
	})
}
