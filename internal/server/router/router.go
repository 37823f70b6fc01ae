package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/server/handlers"
	"github.com/mamadbah2/studentdesk/internal/server/templates"
)

// New wires the Gin engine with the dashboard routes and middlewares.
func New(handler *handlers.DashboardHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(templates.Must())

	r.GET("/", handler.Index)
	r.GET("/api/view", handler.View)
	r.GET("/api/snapshots", handler.Snapshots)

	students := r.Group("/students")
	students.POST("", handler.Submit)
	students.GET("/:id/edit", handler.Edit)
	students.GET("/:id/delete", handler.ConfirmDelete)
	students.POST("/:id/delete", handler.Delete)

	r.POST("/refresh", handler.Refresh)
	r.POST("/cancel", handler.Cancel)
	r.POST("/import", handler.Import)
	r.GET("/export.csv", handler.ExportCSV)
	r.POST("/export/sheets", handler.ExportSheets)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
