package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"workforce/internal/models"
	"workforce/internal/repository"
)

type CompanyHandler struct {
	repo repository.CompanyRepository
	v    *validator.Validate
}

func NewCompanyHandler(repo repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{repo: repo, v: validator.New()}
}

// GetCompany handles GET /api/v1/company.
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.Get(r.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Company info not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get company info")
		writeJSONError(w, http.StatusInternalServerError, "get_company_failed", "Failed to get company info")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// UpdateCompany handles PUT /api/v1/company (admin only). Creates the record
// on first use.
func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	c, err := h.repo.Update(r.Context(), &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			created, createErr := h.createFromUpdate(r, &req)
			if createErr != nil {
				log.Error().Err(createErr).Msg("Failed to create company info")
				writeJSONError(w, http.StatusInternalServerError, "update_company_failed", "Failed to update company info")
				return
			}
			writeJSON(w, http.StatusCreated, created)
			return
		}
		log.Error().Err(err).Msg("Failed to update company info")
		writeJSONError(w, http.StatusInternalServerError, "update_company_failed", "Failed to update company info")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) createFromUpdate(r *http.Request, req *models.UpdateCompanyRequest) (*models.Company, error) {
	c := &models.Company{ID: uuid.NewString()}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.OrgNumber != nil {
		c.OrgNumber = *req.OrgNumber
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.PostalCode != nil {
		c.PostalCode = *req.PostalCode
	}
	if req.City != nil {
		c.City = *req.City
	}
	if req.ContactEmail != nil {
		c.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		c.ContactPhone = *req.ContactPhone
	}

	if err := h.repo.Upsert(r.Context(), c); err != nil {
		return nil, err
	}
	return c, nil
}
