package httpx

import "github.com/gin-gonic/gin"

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

func Error(c *gin.Context, status int, err error) {
	c.JSON(status, HTTPError{Error: err.Error()})
}

func ErrorMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, HTTPError{Error: msg})
}
