package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"workforce/internal/config"
	"workforce/internal/handlers"
	"workforce/internal/middleware"
	"workforce/internal/repository"
)

func RegisterCompanyRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	companyHandler := handlers.NewCompanyHandler(repository.NewCompanyRepository(db))

	router.Route("/company", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/", companyHandler.GetCompany)
		r.With(middleware.RequireAdmin).Put("/", companyHandler.UpdateCompany)
	})
}
