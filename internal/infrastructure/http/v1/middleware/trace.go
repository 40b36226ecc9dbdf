package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/appctx"
)

// Trace middleware attaches trace and request IDs to every request.
// Incoming X-Request-ID is honored so upstream proxies can correlate.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTrace()
		if incoming := c.GetHeader("X-Request-ID"); incoming != "" {
			trace.RequestID = incoming
		}

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", trace.RequestID)
		c.Header("X-Request-ID", trace.RequestID)

		c.Next()
	}
}
