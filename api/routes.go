package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes sets up all routes under /api. Session identity is already in
// the request context; write routes add requireAdmin.
func setupRoutes(r chi.Router, handlers *routeHandlers, session sessionMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	// Content endpoints
	r.Route("/projects", func(r chi.Router) {
		handlers.projectHandler.routes(r, session)
	})
	r.Route("/blogs", func(r chi.Router) {
		handlers.blogHandler.routes(r, session)
	})
	r.Route("/certifications", func(r chi.Router) {
		handlers.certificationHandler.routes(r, session)
	})

	// Auth endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handlers.authHandler.login())
		r.Post("/logout", handlers.authHandler.logout())
		r.Post("/register", handlers.authHandler.register())

		r.Group(func(r chi.Router) {
			r.Use(session.requireAdmin)
			r.Get("/me", handlers.authHandler.me())
			r.Post("/update", handlers.authHandler.update())
		})
	})

	r.With(session.requireAdmin).Post("/upload", handlers.uploadHandler.upload())
	r.Post("/contact", handlers.contactHandler.send())
}
