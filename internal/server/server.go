// Package server wires the HTTP API: middleware, routes and the handlers of
// every domain package.
package server

import (
	"fmt"
	"net/http"
	"time"

	"sima/internal/auth"
	"sima/internal/cache"
	"sima/internal/config"
	"sima/internal/database"
	"sima/internal/products"
	"sima/internal/storage"
	"sima/internal/users"
)

// Deps are the infrastructure clients the API is built from. Cache,
// Storage and Events are optional and may be nil.
type Deps struct {
	DB       database.Service
	Issuer   *auth.Issuer
	Cache    cache.Store
	CacheTTL time.Duration
	Storage  storage.Service
	Events   products.EventPublisher
}

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg  *config.Config
	deps Deps

	auth     *auth.Handler
	users    *users.Handler
	products *products.Handler
}

// New builds repositories, services and handlers from deps
func New(cfg *config.Config, deps Deps) *Server {
	userRepo := users.NewRepository(deps.DB)

	var opts []products.Option
	if deps.Cache != nil {
		opts = append(opts, products.WithCache(deps.Cache, deps.CacheTTL))
	}
	if deps.Storage != nil {
		opts = append(opts, products.WithImages(deps.Storage))
	}
	if deps.Events != nil {
		opts = append(opts, products.WithEvents(deps.Events))
	}

	return &Server{
		cfg:      cfg,
		deps:     deps,
		auth:     auth.NewHandler(auth.NewVerifier(userRepo), deps.Issuer, cfg.TokenTTL),
		users:    users.NewHandler(users.NewService(userRepo)),
		products: products.NewHandler(products.NewService(products.NewRepository(deps.DB), opts...)),
	}
}

// HTTPServer returns the configured *http.Server for s
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
