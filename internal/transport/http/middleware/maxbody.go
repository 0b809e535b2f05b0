package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "realestate-api/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var mbe *http.MaxBytesError
			if errors.As(e.Err, &mbe) {
				resp.Abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
		}
	}
}
