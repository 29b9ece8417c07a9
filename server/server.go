package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantdash/optpricer/engine"
	"github.com/quantdash/optpricer/models"
)

// Server is the HTTP boundary around one pricing engine. It owns request
// parsing, option-type normalization, and the boundary rounding contract;
// all pricing semantics live in the engine.
type Server struct {
	engine   *engine.Engine
	defaults models.ModelConfig
	router   *gin.Engine
}

func New(eng *engine.Engine, defaults models.ModelConfig) *Server {
	s := &Server{
		engine:   eng,
		defaults: defaults.Clamped(),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/options")
	api.POST("/price", s.handlePrice)
	api.POST("/greeks/:model", s.handleGreeks)
	api.POST("/heatmap", s.handleHeatmap)
	api.GET("/health", s.handleHealth)
	router.GET("/health", s.handleHealth)

	s.router = router
	return s
}

// Handler exposes the router for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"models_available": s.engine.ModelNames(),
	})
}
