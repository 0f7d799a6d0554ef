package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"workforce/internal/config"
	"workforce/internal/handlers"
	"workforce/internal/middleware"
	"workforce/internal/repository"
)

func RegisterWorkPeriodRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	workPeriodHandler := handlers.NewWorkPeriodHandler(repository.NewWorkPeriodRepository(db))

	router.Route("/work-periods", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/", workPeriodHandler.ListWorkPeriods)
		r.With(middleware.RequireAdmin).Post("/", workPeriodHandler.CreateWorkPeriod)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", workPeriodHandler.GetWorkPeriod)
			r.With(middleware.RequireAdmin).Put("/", workPeriodHandler.UpdateWorkPeriod)
			r.With(middleware.RequireAdmin).Delete("/", workPeriodHandler.DeleteWorkPeriod)
		})
	})
}
