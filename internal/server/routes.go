package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sima/internal/auth"
)

// RegisterRoutes builds the gin engine with every API route
func (s *Server) RegisterRoutes() http.Handler {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggingMiddleware(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Access-Token", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.healthHandler)

	public := r.Group("/users")
	{
		public.POST("", s.users.Register)
		public.POST("/login", s.auth.Login)
	}

	protected := r.Group("", auth.Middleware(s.deps.Issuer))
	{
		protected.GET("/users", s.users.List)
		protected.GET("/users/:public_id", s.users.Get)
		protected.PUT("/users/:public_id", s.users.Update)
		protected.DELETE("/users/:public_id", s.users.Delete)

		s.products.RegisterRoutes(protected.Group("/product"))
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	dbHealth := s.deps.DB.Health()
	response := gin.H{"database": dbHealth}
	status := http.StatusOK
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.deps.Cache != nil {
		response["cache"] = componentHealth(s.deps.Cache.Ping(ctx))
	}
	if s.deps.Storage != nil {
		response["storage"] = componentHealth(s.deps.Storage.Health(ctx))
	}

	c.JSON(status, response)
}

func componentHealth(err error) map[string]string {
	if err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up"}
}
