package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bancofiuba/backend/internal/auth"
	"github.com/bancofiuba/backend/internal/config"
	"github.com/bancofiuba/backend/internal/http/handlers"
	"github.com/bancofiuba/backend/internal/ledger"
	"github.com/bancofiuba/backend/internal/middleware"
	"github.com/bancofiuba/backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	ledgerService := ledger.New(store)

	users := handlers.NewUserHandler(store, store, tokenManager, cfg.APIPrefix)
	users.Register(mux)
	accounts := handlers.NewAccountHandler(store, cfg.APIPrefix)
	accounts.Register(mux)
	transactions := handlers.NewTransactionHandler(ledgerService, store, cfg.APIPrefix)
	transactions.Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
