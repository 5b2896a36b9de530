package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// Recovery turns a handler panic into a logged 500 with the usual error body.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("panic while serving request",
				logging.String("panic", fmt.Sprint(rec)),
				logging.String("method", c.Request.Method),
				logging.String("path", c.Request.URL.Path),
				logging.String("request_id", GetRequestID(c)),
				logging.String("stack", string(debug.Stack())))
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":       errors.ErrCodeInternal.String(),
				"message":    "internal server error",
				"request_id": GetRequestID(c),
			})
		}()
		c.Next()
	}
}

//Personal.AI order the ending
