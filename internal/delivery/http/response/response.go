package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response. Failures carry their
// user-facing text in Error.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	MessageID string      `json:"messageId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Details   []string    `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string)
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Delivered sends a success response that carries the relay's message id
func Delivered(c *gin.Context, code int, message, messageID string) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		MessageID: messageID,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, details []string) {
	c.JSON(code, Response{
		Success:   false,
		Error:     message,
		Details:   details,
		RequestID: requestID(c),
	})
}
