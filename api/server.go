package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Option configures the router built by NewServer
type Option func(*router)

func NewServer(settings config.Settings, db database.Database, opts ...Option) (Server, error) {
	if settings.JWTSecret == "" {
		return Server{}, config.ErrMissingSigningSecret
	}

	address := fmt.Sprintf("0.0.0.0:%s", settings.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	opts = append([]Option{withSettings(settings), withStartupTime(startupTime)}, opts...)
	router := newRouter(db, opts...)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: settings.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  settings.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	settings    config.Settings
	startupTime time.Time
	uploader    services.Uploader
	contact     *services.ContactService
}

func withSettings(settings config.Settings) Option {
	return func(r *router) {
		r.settings = settings
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithUploader enables POST /api/upload
func WithUploader(uploader services.Uploader) Option {
	return func(r *router) {
		r.uploader = uploader
	}
}

// WithContactService enables POST /api/contact
func WithContactService(contact *services.ContactService) Option {
	return func(r *router) {
		r.contact = contact
	}
}

func newRouter(db database.Database, opts ...Option) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware)

	// Without configured origins only same-origin requests are served
	acceptedOrigins := router.settings.AcceptedOrigins
	if len(acceptedOrigins) > 0 {
		chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
		chiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   acceptedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	tokens := auth.NewTokenService(router.settings.JWTSecret)

	// Initialize all handlers
	handlers := initializeHandlers(db, tokens, router)
	session := newSessionMiddleware(tokens)

	chiRouter.Route("/api", func(r chi.Router) {
		r.Use(session.identify)
		setupRoutes(r, handlers, session)
	})

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
