package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classfee-api/internal/service"
)

const (
	resourceSystem    = "system"
	resourceUnmatched = "unmatched"
)

// domainResources are the route segments that name a billing collection or view.
var domainResources = map[string]struct{}{
	"classes":   {},
	"students":  {},
	"payments":  {},
	"dashboard": {},
}

// Metrics records request counts and latency labelled by route and domain resource.
// Requests that match no route share one label so unknown URLs cannot grow the series set.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		resource := Resource(route)
		if route == "" {
			route = resourceUnmatched
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, resource, route, c.Writer.Status(), time.Since(start))
	}
}

// Resource maps a gin route template such as "/api/v1/payments/:id/status" to its
// domain resource. Health, readiness, metrics and docs routes report "system".
func Resource(route string) string {
	if route == "" {
		return resourceUnmatched
	}
	for _, segment := range strings.Split(route, "/") {
		if _, ok := domainResources[segment]; ok {
			return segment
		}
	}
	return resourceSystem
}
