package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"workforce/internal/config"
	"workforce/internal/handlers"
	"workforce/internal/middleware"
	"workforce/internal/repository"
	"workforce/internal/services"
)

func RegisterAssignmentRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	assignmentRepo := repository.NewAssignmentRepository(db)
	schedule := services.NewScheduleService(repository.NewWorkHoursRepository(db))
	assignmentHandler := handlers.NewAssignmentHandler(assignmentRepo, repository.NewWorkPeriodRepository(db), schedule)
	hoursHandler := handlers.NewWorkHoursHandler(assignmentRepo, schedule)

	router.Route("/assignments", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.With(middleware.RequireAdmin).Post("/", assignmentHandler.CreateAssignment)
		r.Get("/user/{userID}", assignmentHandler.ListAssignmentsByUser)
		r.With(middleware.RequireAdmin).Get("/work-period/{workPeriodID}", assignmentHandler.ListAssignmentsByWorkPeriod)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", assignmentHandler.GetAssignment)
			r.With(middleware.RequireAdmin).Put("/", assignmentHandler.UpdateAssignment)
			r.With(middleware.RequireAdmin).Delete("/", assignmentHandler.DeleteAssignment)

			r.Route("/hours", func(r chi.Router) {
				r.Get("/", hoursHandler.ListEntries)
				r.Put("/", hoursHandler.UpsertEntry)
				r.With(middleware.RequireAdmin).Post("/lock", hoursHandler.LockEntry)
			})
		})
	})
}
