package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDHeader carries the request trace ID. Inbound values are kept
// so a proxy chain shares one ID end to end.
const TraceIDHeader = "X-Trace-ID"

const traceIDKey = "trace_id"

// TraceID tags each request with a trace ID and echoes it in the
// response header.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(traceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}

// GetTraceID returns the request's trace ID, or "" when TraceID did
// not run.
func GetTraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}
