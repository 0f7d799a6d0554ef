package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"workforce/internal/interfaces"
	"workforce/internal/middleware"
	"workforce/internal/models"
	"workforce/internal/services"
)

type WorkHoursHandler struct {
	assignments interfaces.AssignmentRepository
	schedule    *services.ScheduleService
	v           *validator.Validate
}

func NewWorkHoursHandler(assignments interfaces.AssignmentRepository, schedule *services.ScheduleService) *WorkHoursHandler {
	return &WorkHoursHandler{assignments: assignments, schedule: schedule, v: validator.New()}
}

// UpsertEntry handles PUT /api/v1/assignments/{id}/hours. Creates or updates
// the entry for one day; locked entries reject the write for everyone.
func (h *WorkHoursHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	assignment, ok := h.fetchAssignment(w, r)
	if !ok {
		return
	}

	var req models.UpsertWorkHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	ctx := r.Context()
	entry, err := h.schedule.UpsertHoursEntry(
		ctx,
		middleware.UserIDFromContext(ctx),
		middleware.RoleFromContext(ctx),
		assignment,
		req.Date.Time,
		req.HoursWorked,
		req.Note,
	)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// ListEntries handles GET /api/v1/assignments/{id}/hours with optional from
// and to date bounds (RFC 3339 dates).
func (h *WorkHoursHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	assignment, ok := h.fetchAssignment(w, r)
	if !ok {
		return
	}

	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "validation_error", "from must be a date (YYYY-MM-DD)")
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "validation_error", "to must be a date (YYYY-MM-DD)")
			return
		}
		to = &t
	}

	ctx := r.Context()
	entries, err := h.schedule.ListHoursEntries(
		ctx,
		middleware.UserIDFromContext(ctx),
		middleware.RoleFromContext(ctx),
		assignment,
		from,
		to,
	)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.WorkHoursEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// LockEntry handles POST /api/v1/assignments/{id}/hours/lock (admin only).
// Once locked an entry never becomes editable again through this API.
func (h *WorkHoursHandler) LockEntry(w http.ResponseWriter, r *http.Request) {
	assignment, ok := h.fetchAssignment(w, r)
	if !ok {
		return
	}

	var req struct {
		Date models.DateOnly `json:"date" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.schedule.LockHoursEntry(r.Context(), middleware.RoleFromContext(r.Context()), assignment.ID, req.Date.Time); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSONMessage(w, http.StatusOK, "Entry locked")
}

func (h *WorkHoursHandler) fetchAssignment(w http.ResponseWriter, r *http.Request) (*models.Assignment, bool) {
	id := chi.URLParam(r, "id")

	assignment, err := h.assignments.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Assignment not found")
			return nil, false
		}
		log.Error().Err(err).Str("assignment_id", id).Msg("Failed to get assignment")
		writeJSONError(w, http.StatusInternalServerError, "get_assignment_failed", "Failed to get assignment")
		return nil, false
	}
	return assignment, true
}
