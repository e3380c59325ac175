package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/predictifylabs/predictify-api/internal/metrics"
)

// CountRequests records every request against its route template, not the raw path.
func CountRequests() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}
