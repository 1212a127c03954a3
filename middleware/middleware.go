package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

type Middleware struct {
	logger  *zap.SugaredLogger
	metrics *Metrics
}

func NewMiddleware(logger *zap.SugaredLogger, metrics *Metrics) *Middleware {
	return &Middleware{logger: logger, metrics: metrics}
}

// RequestID reuses the caller's X-Request-ID or generates one.
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestLogger logs every request and records its metrics.
func (m *Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"size", c.Writer.Size(),
			"duration", duration,
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(RequestIDKey),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		if status >= http.StatusInternalServerError {
			m.logger.Errorw("HTTP request", fields...)
		} else {
			m.logger.Infow("HTTP request", fields...)
		}

		if m.metrics != nil {
			m.metrics.RecordHTTPRequest(c.Request.Method, route, status, duration)
		}
	}
}

// Recoverer turns a panic into a logged 500.
func (m *Middleware) Recoverer() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rvr := recover(); rvr != nil {
				m.logger.Errorw("Panic recovered",
					"panic", rvr,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(RequestIDKey),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			}
		}()
		c.Next()
	}
}
