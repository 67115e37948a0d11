// Package api serves level data, progress and headless simulations over
// HTTP. The API is read-only: simulations never touch saved progress.
package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

// Server holds what the handlers need.
type Server struct {
	catalog  *level.Catalog
	store    *storage.Store    // may be nil
	recorder *storage.Recorder // nil when store is nil
	logger   *log.Logger
	started  time.Time
}

// NewServer creates the API state. store may be nil, in which case every
// level is reported unlocked and no progress is returned.
func NewServer(catalog *level.Catalog, store *storage.Store, logger *log.Logger) *Server {
	s := &Server{
		catalog: catalog,
		store:   store,
		logger:  logger,
		started: time.Now(),
	}
	if store != nil {
		s.recorder = storage.NewRecorder(store, catalog)
	}
	return s
}

// SetupRoutes configures all API routes
func (s *Server) SetupRoutes(router *gin.Engine) {
	router.Use(s.requestLogger())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", s.HealthCheck)

		levels := v1.Group("/levels")
		{
			levels.GET("", s.ListLevels)
			levels.GET("/:id", s.GetLevel)
			levels.GET("/:id/best", s.GetBest)
			levels.POST("/:id/preview", s.PreviewLaunch)
			levels.POST("/:id/simulate", s.SimulateLaunch)
		}
	}
}

// NewRouter returns a gin engine with recovery, request logging and the
// API routes.
func (s *Server) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	s.SetupRoutes(router)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if s.logger == nil {
			return
		}
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
