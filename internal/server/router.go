// Package server exposes the tutoring loop over HTTP JSON endpoints.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorloop/internal/logger"
	"github.com/abhisek/tutorloop/internal/orchestrator"
	"github.com/abhisek/tutorloop/internal/session"
)

// RouterConfig wires the HTTP layer.
type RouterConfig struct {
	Orchestrator   *orchestrator.Orchestrator
	Store          session.Store
	Log            *logger.Logger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	h := &handlers{orch: cfg.Orchestrator, log: log}

	api := r.Group("/api")
	{
		api.GET("/health", h.health)

		api.POST("/session/new", h.newSession)
		api.GET("/session/:id", h.getSession)
		api.DELETE("/session/:id", h.deleteSession)

		api.POST("/ingest", h.ingest)
		api.POST("/chat", h.chat)
		api.POST("/game/generate", h.generateGame)
		api.POST("/game/answer", h.answerGame)
	}

	return r
}

// requestLogger logs one line per request.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
