package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tasknest/tasknest/internal/api"
	apiMiddleware "github.com/tasknest/tasknest/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.authenticator,
		app.passwordHasher,
		app.accessTokenLifetime(),
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.authenticator)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	agentHandler := api.NewAgentHandler(app.agentService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/me", authHandler.Me)

			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			r.Post("/tasks/{id}/readers/{email}", taskHandler.AddReader)
			r.Delete("/tasks/{id}/readers/{email}", taskHandler.RemoveReader)

			r.Post("/tasks/{id}/analyze", agentHandler.Analyze)
			r.Post("/tasks/{id}/assist", agentHandler.Assist)
		})
	})

	// WebSocket endpoint; authentication happens during the handshake via
	// the token query parameter, not the bearer middleware.
	r.Get("/ws/tasks", app.wsHandler.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
