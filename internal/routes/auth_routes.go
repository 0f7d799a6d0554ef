package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"workforce/internal/config"
	"workforce/internal/handlers"
	"workforce/internal/middleware"
	"workforce/internal/services"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config, mailer services.EmailSender) {
	authHandler := handlers.NewAuthHandler(db, cfg, mailer)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Get("/reset-password/{token}", authHandler.ValidateResetToken)
		r.Post("/reset-password", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Post("/change-password", authHandler.ChangePassword)
		})
	})
}
