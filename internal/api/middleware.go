package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// TraceHeader carries the trace id of a request. An incoming value is kept, otherwise a new
	// one is generated. The response always echoes it.
	TraceHeader = "X-Trace-ID"

	traceKey = "traceId"
)

// Trace assigns a trace id to every request.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := strings.TrimSpace(c.GetHeader(TraceHeader))
		if traceId == "" || len(traceId) > 128 {
			traceId = uuid.NewString()
		}
		c.Set(traceKey, traceId)
		c.Header(TraceHeader, traceId)
		c.Next()
	}
}

// TraceID returns the trace id assigned by Trace, or an empty string outside of it.
func TraceID(c *gin.Context) string {
	return c.GetString(traceKey)
}

// RequestLogger writes one log entry per request after it has been handled.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"traceId":  TraceID(c),
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"clientIp": c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request handled")
		case status >= http.StatusBadRequest:
			entry.Warn("request handled")
		default:
			entry.Info("request handled")
		}
	}
}

// CORS allows browser clients from the given origins, including credentials. Preflight requests
// are answered directly.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAny := false
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAny = true
		}
		if origin != "" {
			allowed[origin] = true
		}
	}
	allowMethods := strings.Join([]string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
	maxAge := strconv.Itoa(int((12 * time.Hour).Seconds()))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		c.Header("Vary", "Origin")
		if !allowAny && !allowed[origin] {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		// Credentials rule out the wildcard, so the origin is always echoed.
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Expose-Headers", TraceHeader+", Location")

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			requested := c.GetHeader("Access-Control-Request-Headers")
			if requested == "" {
				requested = "Content-Type, " + TraceHeader
			}
			c.Header("Access-Control-Allow-Methods", allowMethods)
			c.Header("Access-Control-Allow-Headers", requested)
			c.Header("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
