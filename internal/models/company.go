package models

import "time"

// Company holds the administrative company record. There is exactly one row;
// the handlers treat it as a singleton.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	OrgNumber    string    `json:"org_number,omitempty"`
	Address      string    `json:"address,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	City         string    `json:"city,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	OrgNumber    *string `json:"org_number,omitempty"`
	Address      *string `json:"address,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	City         *string `json:"city,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}
