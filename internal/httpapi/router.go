package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type routerOptions struct {
	corsOrigins []string
}

// RouterOption customizes NewRouter.
type RouterOption func(*routerOptions)

// WithCORS allows cross-origin requests from origins. "*" allows any origin.
func WithCORS(origins ...string) RouterOption {
	return func(o *routerOptions) {
		o.corsOrigins = append(o.corsOrigins, origins...)
	}
}

// NewRouter builds the gin engine with all API routes. When mcpHandler is
// non-nil it is mounted at /mcp.
func NewRouter(h *Handler, mcpHandler http.Handler, opts ...RouterOption) *gin.Engine {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))
	if len(o.corsOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = o.corsOrigins
		corsCfg.AddAllowHeaders("Authorization", "Mcp-Session-Id", "Mcp-Protocol-Version")
		corsCfg.AddExposeHeaders("Mcp-Session-Id")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		projects := api.Group("/projects")
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.PUT("/:id/status", h.UpdateStatus)

		api.GET("/tenders", h.ListTenders)
		api.GET("/offers", h.ListOffers)
		api.GET("/statuses", h.StatusCounts)
		api.POST("/scan", h.Scan)
	}

	if mcpHandler != nil {
		router.Any("/mcp", gin.WrapH(mcpHandler))
	}

	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
