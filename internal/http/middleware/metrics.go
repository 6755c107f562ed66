package middleware

import (
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

// Prometheus instruments every route and serves /metrics on r.
func Prometheus(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("gin")
	// collapse path params so each course id is not its own series
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		if route := c.FullPath(); route != "" {
			return route
		}
		return "unmatched"
	}
	p.Use(r)
}
