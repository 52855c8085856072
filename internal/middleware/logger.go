package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ehomehq/ehome/pkg/logger"
)

// Logger writes one access log entry per request. Server errors log at error
// level and requests to the quiet paths at debug.
func Logger(quiet ...string) gin.HandlerFunc {
	silent := make(map[string]struct{}, len(quiet))
	for _, path := range quiet {
		silent[path] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(CtxRequestIDKey)),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		level := zapcore.InfoLevel
		switch _, probe := silent[path]; {
		case status >= 500:
			level = zapcore.ErrorLevel
		case probe:
			level = zapcore.DebugLevel
		}
		logger.WithModule("http").Log(level, "request", fields...)
	}
}
