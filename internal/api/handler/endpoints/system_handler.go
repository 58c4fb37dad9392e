package endpoints

import (
	"context"
	"net/http"
	"time"

	"storeapi/internal/api/handler/response"
	"storeapi/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// SystemHandler sets up /health, /metrics and, when hub is not nil, /ws.
func SystemHandler(router gin.IRouter, hub *realtime.Hub, checks map[string]HealthCheck) {
	router.GET("/health", health(checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			realtime.ServeWS(hub, c.Writer, c.Request)
		})
	}
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				components[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}

		env := response.Success("healthy", components)
		if status != http.StatusOK {
			env.Status = response.StatusFailed
			env.Message = "unhealthy"
		}
		c.JSON(status, env)
	}
}
