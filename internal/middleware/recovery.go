package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ehomehq/ehome/pkg/errors"
	"github.com/ehomehq/ehome/pkg/logger"
	"github.com/ehomehq/ehome/pkg/response"
)

// Recovery turns a handler panic into a SERVERERR envelope. The panic value
// is logged with the stack and never echoed to the client. When the client
// has already gone away nothing is written.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			log := logger.WithModule("http").With(
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(CtxRequestIDKey)),
			)

			if err, ok := recovered.(error); ok && connectionClosed(err) {
				log.Warn("client connection closed", zap.Error(err))
				c.Abort()
				return
			}

			log.Error("panic recovered", zap.Any("panic", recovered), zap.Stack("stack"))
			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Error(c, errors.ErrInternalServer)
			c.Abort()
		}()
		c.Next()
	}
}

func connectionClosed(err error) bool {
	return stderrors.Is(err, syscall.EPIPE) || stderrors.Is(err, syscall.ECONNRESET)
}

// NotFoundHandler answers unknown routes with a REQERR envelope.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, errors.New(errors.REQERR, fmt.Sprintf("route %s not found", c.Request.URL.Path), http.StatusNotFound))
}
