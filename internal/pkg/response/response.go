package response

import "github.com/gin-gonic/gin"

// Error codes are stable; clients branch on the code, never the message.
const (
	CodeValidation       = "validation_error"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeVerticalMismatch = "vertical_mismatch"
	CodeInternal         = "internal_error"
)

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"error":   code,
		"message": message,
	})
}

func ValidationError(c *gin.Context, statusCode int, message string, details map[string]string) {
	body := gin.H{
		"error":   CodeValidation,
		"message": message,
	}
	if len(details) > 0 {
		body["details"] = details
	}
	c.JSON(statusCode, body)
}
