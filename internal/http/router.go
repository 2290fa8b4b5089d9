package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alsxui/provisioning-gateway/internal/config"
	"github.com/alsxui/provisioning-gateway/internal/service"
)

type Server struct {
	router  *gin.Engine
	handler *Handler
	cfg     *config.Config
}

func NewServer(cfg *config.Config, provisionService *service.ProvisionService) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(corsConfig(cfg.Gateway.AllowedOrigins)))

	// Non-POST, non-OPTIONS on the gateway endpoint must answer 405, not 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	handler := NewHandler(cfg, provisionService)

	s := &Server{
		router:  router,
		handler: handler,
		cfg:     cfg,
	}

	s.setupRoutes()
	return s
}

// corsConfig grants an allow-listed origin itself, any origin when the list
// is empty, and nothing when a non-empty list has no match.
func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", HeaderSecret, HeaderAction, "Authorization"},
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "provisioning-gateway",
		})
	})

	// Prometheus metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Gateway endpoint - called by the order pipeline
	s.router.POST("/", SharedSecretMiddleware(s.cfg.Gateway.SharedSecret, s.cfg.Gateway.JWTAuthEnabled), s.handler.Provision)

	// Preflight without an Origin header never reaches the CORS middleware.
	s.router.OPTIONS("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
