package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"workforce/internal/config"
	"workforce/internal/handlers"
	"workforce/internal/middleware"
	"workforce/internal/repository"
)

func RegisterUserRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	userHandler := handlers.NewUserHandler(repository.NewUserRepository(db))

	router.Route("/users", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.With(middleware.RequireAdmin).Get("/", userHandler.ListUsers)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Put("/", userHandler.UpdateUser)
			r.With(middleware.RequireAdmin).Put("/active", userHandler.SetUserActive)
			r.With(middleware.RequireAdmin).Delete("/", userHandler.DeleteUser)
		})
	})
}
