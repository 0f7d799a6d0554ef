package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"workforce/internal/middleware"
	"workforce/internal/models"
	"workforce/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
	v     *validator.Validate
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users, v: validator.New()}
}

// ListUsers handles GET /api/v1/users (admin only).
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, err := parsePaginationParams(r, 50, 200)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "invalid pagination parameters")
		return
	}

	total, err := h.users.Count(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to count users")
		writeJSONError(w, http.StatusInternalServerError, "list_users_failed", "Failed to list users")
		return
	}

	users, err := h.users.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeJSONError(w, http.StatusInternalServerError, "list_users_failed", "Failed to list users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":  users,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetUser handles GET /api/v1/users/{id}. Workers can only read themselves.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if middleware.RoleFromContext(ctx) != models.RoleAdmin && middleware.UserIDFromContext(ctx) != id {
		writeJSONError(w, http.StatusForbidden, "forbidden", "You don't have permission to access this resource")
		return
	}

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_user_failed", "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /api/v1/users/{id}. Workers can only update
// themselves.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if middleware.RoleFromContext(ctx) != models.RoleAdmin && middleware.UserIDFromContext(ctx) != id {
		writeJSONError(w, http.StatusForbidden, "forbidden", "You don't have permission to access this resource")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.users.UpdateProfile(ctx, id, &req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			writeJSONError(w, http.StatusBadRequest, "duplicate_user", "Email or username already in use")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "update_user_failed", "Failed to update user")
		return
	}

	writeJSONMessage(w, http.StatusOK, "User updated")
}

// SetUserActive handles PUT /api/v1/users/{id}/active (admin only).
func (h *UserHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.users.SetActive(r.Context(), id, *req.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "update_user_failed", "Failed to update user")
		return
	}

	writeJSONMessage(w, http.StatusOK, "User updated")
}

// DeleteUser handles DELETE /api/v1/users/{id} (admin only).
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "delete_user_failed", "Failed to delete user")
		return
	}

	writeJSONMessage(w, http.StatusOK, "User deleted")
}
