package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"workforce/internal/config"
	"workforce/internal/interfaces"
	"workforce/internal/middleware"
	"workforce/internal/models"
	"workforce/internal/repository"
	"workforce/internal/services"
)

type DocumentHandler struct {
	repo          repository.DocumentRepository
	assignments   interfaces.AssignmentRepository
	schedule      *services.ScheduleService
	s3Client      *s3.Client
	bucket        string
	publicBaseURL string
	v             *validator.Validate
}

func NewDocumentHandler(
	repo repository.DocumentRepository,
	assignments interfaces.AssignmentRepository,
	schedule *services.ScheduleService,
	s3Config *config.S3Config,
) *DocumentHandler {
	return &DocumentHandler{
		repo:          repo,
		assignments:   assignments,
		schedule:      schedule,
		s3Client:      s3Config.Client,
		bucket:        s3Config.Bucket,
		publicBaseURL: s3Config.PublicBaseURL,
		v:             validator.New(),
	}
}

// UploadDocuments handles multiple file uploads to S3
// @Tags Documents
// @Summary Upload documents for an assignment
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param assignment_id formData string true "Assignment ID"
// @Param kind formData string true "Document kind (invoice, contract, order)"
// @Param files formData file true "Document files"
// @Success 201 {array} models.Document
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/documents/upload [post]
func (h *DocumentHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20 // 32MB max memory
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	assignmentID := r.FormValue("assignment_id")
	if assignmentID == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "assignment_id is required")
		return
	}
	if _, err := uuid.Parse(assignmentID); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "assignment_id must be a valid UUID")
		return
	}

	kind := models.DocumentKind(r.FormValue("kind"))
	switch kind {
	case models.DocumentKindInvoice, models.DocumentKindContract, models.DocumentKindOrder:
	default:
		writeJSONError(w, http.StatusBadRequest, "validation_error", "kind must be one of invoice, contract, order")
		return
	}

	assignment, err := h.assignments.GetByID(r.Context(), assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusBadRequest, "validation_error", "assignment_id not found")
			return
		}
		log.Error().Err(err).Str("assignment_id", assignmentID).Msg("Failed to validate assignment")
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to validate assignment")
		return
	}

	actorID := middleware.UserIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())
	if err := h.schedule.AuthorizeAssignmentAccess(actorID, role, assignment); err != nil {
		writeAppError(w, err)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "No files uploaded")
		return
	}

	var uploaded []*models.Document
	uploader := manager.NewUploader(h.s3Client)

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("Failed to open file")
			continue
		}

		doc := &models.Document{
			ID:           uuid.NewString(),
			Name:         fileHeader.Filename,
			Kind:         kind,
			Size:         fileHeader.Size,
			AssignmentID: assignmentID,
			UploadedBy:   actorID,
			UploadedAt:   time.Now().UTC(),
		}

		key := filepath.Join("documents", doc.ID+filepath.Ext(fileHeader.Filename))

		_, err = uploader.Upload(r.Context(), &s3.PutObjectInput{
			Bucket: aws.String(h.bucket),
			Key:    aws.String(key),
			Body:   file,
		})
		file.Close()

		if err != nil {
			log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("Failed to upload file to S3")
			continue
		}

		doc.URL = strings.TrimRight(h.publicBaseURL, "/") + "/" + key
		doc.FilePath = key

		if err := h.repo.Create(r.Context(), doc); err != nil {
			log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("Failed to save document")
			continue
		}

		uploaded = append(uploaded, doc)
	}

	if len(uploaded) == 0 {
		writeJSONError(w, http.StatusInternalServerError, "upload_failed", "Failed to upload any files")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(uploaded); err != nil {
		log.Warn().Err(err).Msg("Error encoding response")
	}
}

// @Tags Documents
// @Summary List documents for an assignment
// @Security BearerAuth
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Success 200 {array} models.Document
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/documents/assignment/{assignmentID} [get]
func (h *DocumentHandler) ListDocumentsByAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")
	if assignmentID == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "assignmentID is required")
		return
	}

	assignment, err := h.assignments.GetByID(r.Context(), assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Assignment not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "list_documents_failed", "Failed to list documents")
		return
	}

	actorID := middleware.UserIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())
	if err := h.schedule.AuthorizeAssignmentAccess(actorID, role, assignment); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := parsePaginationParams(r, 50, 200)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "invalid pagination parameters")
		return
	}

	total, err := h.repo.CountByAssignment(r.Context(), assignmentID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count documents")
		writeJSONError(w, http.StatusInternalServerError, "list_documents_failed", "Failed to list documents")
		return
	}

	docs, err := h.repo.ListByAssignment(r.Context(), assignmentID, p.Limit, p.Offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list documents")
		writeJSONError(w, http.StatusInternalServerError, "list_documents_failed", "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []*models.Document{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     total,
		"limit":     p.Limit,
		"offset":    p.Offset,
	})
}

// UpdateDocument handles PUT /api/v1/documents/{id} (rename or re-classify).
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}

	var req models.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	updated, err := h.repo.Update(r.Context(), doc.ID, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Document not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "update_document_failed", "Failed to update document")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteDocument handles DELETE /api/v1/documents/{id}: removes the S3 object
// first, then the metadata row.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}

	if doc.FilePath != "" {
		_, err := h.s3Client.DeleteObject(r.Context(), &s3.DeleteObjectInput{
			Bucket: aws.String(h.bucket),
			Key:    aws.String(doc.FilePath),
		})
		if err != nil {
			log.Error().Err(err).Str("key", doc.FilePath).Msg("Failed to delete S3 object")
			writeJSONError(w, http.StatusInternalServerError, "delete_document_failed", "Failed to delete document")
			return
		}
	}

	if err := h.repo.Delete(r.Context(), doc.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusInternalServerError, "delete_document_failed", "Failed to delete document")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Document deleted")
}

func (h *DocumentHandler) fetchAuthorized(w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	doc, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Document not found")
			return nil, false
		}
		writeJSONError(w, http.StatusInternalServerError, "get_document_failed", "Failed to get document")
		return nil, false
	}

	assignment, err := h.assignments.GetByID(ctx, doc.AssignmentID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "get_document_failed", "Failed to get document")
		return nil, false
	}

	actorID := middleware.UserIDFromContext(ctx)
	role := middleware.RoleFromContext(ctx)
	if err := h.schedule.AuthorizeAssignmentAccess(actorID, role, assignment); err != nil {
		writeAppError(w, err)
		return nil, false
	}
	return doc, true
}
