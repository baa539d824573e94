package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LimitRequestBody caps the request body at n bytes and answers oversized uploads with a
// validation error. Reads past the cap on chunked bodies fail with
// *http.MaxBytesError, which handlers turn into a client error.
func LimitRequestBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Request body is too large.",
			})
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
