package handlers

import (
	"fmt"
	"net/http"
	"runtime"

	"climatesolutions/logger"

	"github.com/gin-gonic/gin"
)

// RecoverWrapper recovers a panicking handler, logs the stack and renders
// the error page with status 500.
func RecoverWrapper() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := make([]byte, 8*1024)
				stack = stack[:runtime.Stack(stack, false)]
				logger.Errorf("panic recovered on %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, rec, stack)

				c.Abort()
				if c.Writer.Written() {
					return
				}
				c.HTML(http.StatusInternalServerError, "500", PageData{
					Message: fmt.Sprintf("I'm sorry, but we have encountered the following error: %v", rec),
				})
			}
		}()

		c.Next()
	}
}
