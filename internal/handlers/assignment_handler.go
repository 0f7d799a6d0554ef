package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"workforce/internal/interfaces"
	"workforce/internal/middleware"
	"workforce/internal/models"
	"workforce/internal/services"
)

type AssignmentHandler struct {
	repo     interfaces.AssignmentRepository
	periods  interfaces.WorkPeriodRepository
	schedule *services.ScheduleService
	v        *validator.Validate
}

func NewAssignmentHandler(
	repo interfaces.AssignmentRepository,
	periods interfaces.WorkPeriodRepository,
	schedule *services.ScheduleService,
) *AssignmentHandler {
	return &AssignmentHandler{
		repo:     repo,
		periods:  periods,
		schedule: schedule,
		v:        validator.New(),
	}
}

// CreateAssignment handles POST /api/v1/assignments (admin only). The
// assignment window must sit inside the work period window.
func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	period, err := h.periods.GetByID(r.Context(), req.WorkPeriodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusBadRequest, "invalid_work_period_id", "Work period not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "create_assignment_failed", "Failed to create assignment")
		return
	}

	if err := h.schedule.ValidateAssignmentWindow(period, req.FromDate, req.ToDate); err != nil {
		writeAppError(w, err)
		return
	}

	assignment := &models.Assignment{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		WorkPeriodID: req.WorkPeriodID,
		FromDate:     req.FromDate,
		ToDate:       req.ToDate,
		Profession:   req.Profession,
	}

	if err := h.repo.Create(r.Context(), assignment); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			writeJSONError(w, http.StatusBadRequest, "invalid_reference", "User or work period not found")
			return
		}
		log.Error().Err(err).Msg("Failed to create assignment")
		writeJSONError(w, http.StatusInternalServerError, "create_assignment_failed", "Failed to create assignment")
		return
	}

	assignment.Status = services.DeriveStatus(assignment.FromDate, assignment.ToDate, time.Now())
	writeJSON(w, http.StatusCreated, assignment)
}

// GetAssignment handles GET /api/v1/assignments/{id}. Workers can only read
// their own assignments.
func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, ok := h.fetchAuthorized(w, r)
	if !ok {
		return
	}

	assignment.Status = services.DeriveStatus(assignment.FromDate, assignment.ToDate, time.Now())
	writeJSON(w, http.StatusOK, assignment)
}

// ListAssignmentsByUser handles GET /api/v1/assignments/user/{userID}.
func (h *AssignmentHandler) ListAssignmentsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	ctx := r.Context()

	if middleware.RoleFromContext(ctx) != models.RoleAdmin && middleware.UserIDFromContext(ctx) != userID {
		writeJSONError(w, http.StatusForbidden, "forbidden", "You don't have permission to access this resource")
		return
	}

	assignments, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list assignments")
		writeJSONError(w, http.StatusInternalServerError, "list_assignments_failed", "Failed to list assignments")
		return
	}
	h.writeAssignmentList(w, assignments)
}

// ListAssignmentsByWorkPeriod handles GET /api/v1/assignments/work-period/{workPeriodID}
// (admin only).
func (h *AssignmentHandler) ListAssignmentsByWorkPeriod(w http.ResponseWriter, r *http.Request) {
	workPeriodID := chi.URLParam(r, "workPeriodID")

	assignments, err := h.repo.ListByWorkPeriod(r.Context(), workPeriodID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list assignments")
		writeJSONError(w, http.StatusInternalServerError, "list_assignments_failed", "Failed to list assignments")
		return
	}
	h.writeAssignmentList(w, assignments)
}

func (h *AssignmentHandler) writeAssignmentList(w http.ResponseWriter, assignments []*models.Assignment) {
	if assignments == nil {
		assignments = []*models.Assignment{}
	}
	now := time.Now()
	for _, a := range assignments {
		a.Status = services.DeriveStatus(a.FromDate, a.ToDate, now)
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

// UpdateAssignment handles PUT /api/v1/assignments/{id} (admin only). Date
// changes are re-checked against the period window.
func (h *AssignmentHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Assignment not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "update_assignment_failed", "Failed to update assignment")
		return
	}

	fromDate := existing.FromDate
	if req.FromDate != nil {
		fromDate = *req.FromDate
	}
	toDate := existing.ToDate
	if req.ToDate != nil {
		toDate = *req.ToDate
	}

	period, err := h.periods.GetByID(r.Context(), existing.WorkPeriodID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "update_assignment_failed", "Failed to update assignment")
		return
	}
	if err := h.schedule.ValidateAssignmentWindow(period, fromDate, toDate); err != nil {
		writeAppError(w, err)
		return
	}

	assignment, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Assignment not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update assignment")
		writeJSONError(w, http.StatusInternalServerError, "update_assignment_failed", "Failed to update assignment")
		return
	}

	assignment.Status = services.DeriveStatus(assignment.FromDate, assignment.ToDate, time.Now())
	writeJSON(w, http.StatusOK, assignment)
}

// DeleteAssignment handles DELETE /api/v1/assignments/{id} (admin only).
func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Assignment not found")
			return
		}
		log.Error().Err(err).Msg("Failed to delete assignment")
		writeJSONError(w, http.StatusInternalServerError, "delete_assignment_failed", "Failed to delete assignment")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Assignment deleted")
}

// fetchAuthorized loads the assignment from the URL and enforces
// owner-or-admin access. Writes the error response itself.
func (h *AssignmentHandler) fetchAuthorized(w http.ResponseWriter, r *http.Request) (*models.Assignment, bool) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	assignment, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Assignment not found")
			return nil, false
		}
		writeJSONError(w, http.StatusInternalServerError, "get_assignment_failed", "Failed to get assignment")
		return nil, false
	}

	actorID := middleware.UserIDFromContext(ctx)
	role := middleware.RoleFromContext(ctx)
	if err := h.schedule.AuthorizeAssignmentAccess(actorID, role, assignment); err != nil {
		writeAppError(w, err)
		return nil, false
	}
	return assignment, true
}
