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

func RegisterDocumentRoutes(router chi.Router, db *sql.DB, cfg *config.Config, s3Config *config.S3Config) {
	documentHandler := handlers.NewDocumentHandler(
		repository.NewDocumentRepository(db),
		repository.NewAssignmentRepository(db),
		services.NewScheduleService(repository.NewWorkHoursRepository(db)),
		s3Config,
	)

	router.Route("/documents", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Post("/upload", documentHandler.UploadDocuments)
		r.Get("/assignment/{assignmentID}", documentHandler.ListDocumentsByAssignment)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", documentHandler.UpdateDocument)
			r.Delete("/", documentHandler.DeleteDocument)
		})
	})
}
