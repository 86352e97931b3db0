// Package response writes the uniform JSON envelope used by every endpoint.
package response

import "github.com/gin-gonic/gin"

// Envelope is the body shape shared by success and error responses.
type Envelope struct {
	Data    any     `json:"data"`
	Message *string `json:"message"`
	Code    int     `json:"code"`
	Success bool    `json:"success"`
}

// Empty serializes as an empty JSON array, the payload of responses that
// carry no data.
func Empty() []any {
	return []any{}
}

// Success writes a successful envelope with the given status code.
func Success(c *gin.Context, data any, message string, code int) {
	c.JSON(code, build(data, message, code, true))
}

// Error writes a failed envelope with the given status code.
func Error(c *gin.Context, data any, message string, code int) {
	c.JSON(code, build(data, message, code, false))
}

func build(data any, message string, code int, success bool) Envelope {
	env := Envelope{
		Data:    data,
		Code:    code,
		Success: success,
	}
	if message != "" {
		env.Message = &message
	}
	return env
}
