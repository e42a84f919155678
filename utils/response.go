package utils

import "github.com/gin-gonic/gin"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func SuccessMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Data: data, Message: message})
}

func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Error: message})
}

func FailWithErrors(c *gin.Context, status int, message string, errs []string) {
	c.AbortWithStatusJSON(status, Response{Error: message, Errors: errs})
}
