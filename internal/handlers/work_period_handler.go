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
	"github.com/rs/zerolog/log"

	"workforce/internal/interfaces"
	"workforce/internal/models"
	"workforce/internal/services"
)

type WorkPeriodHandler struct {
	repo interfaces.WorkPeriodRepository
	v    *validator.Validate
}

func NewWorkPeriodHandler(repo interfaces.WorkPeriodRepository) *WorkPeriodHandler {
	return &WorkPeriodHandler{repo: repo, v: validator.New()}
}

// CreateWorkPeriod handles POST /api/v1/work-periods (admin only).
func (h *WorkPeriodHandler) CreateWorkPeriod(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	period := &models.WorkPeriod{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Requirements: req.Requirements,
	}

	if err := h.repo.Create(r.Context(), period); err != nil {
		log.Error().Err(err).Msg("Failed to create work period")
		writeJSONError(w, http.StatusInternalServerError, "create_work_period_failed", "Failed to create work period")
		return
	}

	period.Status = services.DeriveStatus(period.StartDate, period.EndDate, time.Now())
	writeJSON(w, http.StatusCreated, period)
}

// GetWorkPeriod handles GET /api/v1/work-periods/{id}.
func (h *WorkPeriodHandler) GetWorkPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Work period not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_work_period_failed", "Failed to get work period")
		return
	}

	period.Status = services.DeriveStatus(period.StartDate, period.EndDate, time.Now())
	writeJSON(w, http.StatusOK, period)
}

// ListWorkPeriods handles GET /api/v1/work-periods with an optional status
// filter (active, upcoming, ended).
func (h *WorkPeriodHandler) ListWorkPeriods(w http.ResponseWriter, r *http.Request) {
	p, err := parsePaginationParams(r, 50, 200)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "invalid pagination parameters")
		return
	}

	filter := interfaces.WorkPeriodFilter{
		Now:    time.Now().UTC(),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	switch status := r.URL.Query().Get("status"); status {
	case "":
	case string(models.PeriodStatusActive), string(models.PeriodStatusUpcoming), string(models.PeriodStatusEnded):
		filter.Status = models.PeriodStatus(status)
	default:
		writeJSONError(w, http.StatusBadRequest, "validation_error", "status must be one of active, upcoming, ended")
		return
	}

	periods, err := h.repo.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list work periods")
		writeJSONError(w, http.StatusInternalServerError, "list_work_periods_failed", "Failed to list work periods")
		return
	}
	if periods == nil {
		periods = []*models.WorkPeriod{}
	}

	now := time.Now()
	for _, period := range periods {
		period.Status = services.DeriveStatus(period.StartDate, period.EndDate, now)
	}

	writeJSON(w, http.StatusOK, map[string]any{"work_periods": periods})
}

// UpdateWorkPeriod handles PUT /api/v1/work-periods/{id} (admin only).
func (h *WorkPeriodHandler) UpdateWorkPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateWorkPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "end_date must not precede start_date")
		return
	}

	period, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Work period not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update work period")
		writeJSONError(w, http.StatusInternalServerError, "update_work_period_failed", "Failed to update work period")
		return
	}

	period.Status = services.DeriveStatus(period.StartDate, period.EndDate, time.Now())
	writeJSON(w, http.StatusOK, period)
}

// DeleteWorkPeriod handles DELETE /api/v1/work-periods/{id} (admin only).
// Periods with assignments cannot be deleted.
func (h *WorkPeriodHandler) DeleteWorkPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Work period not found")
			return
		}
		var blocked *interfaces.DeletionBlockedError
		if errors.As(err, &blocked) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":      "deletion_blocked",
				"message":    "Work period has assignments and cannot be deleted",
				"references": blocked.References,
			})
			return
		}
		log.Error().Err(err).Msg("Failed to delete work period")
		writeJSONError(w, http.StatusInternalServerError, "delete_work_period_failed", "Failed to delete work period")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Work period deleted")
}
