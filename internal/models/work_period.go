package models

import "time"

// PeriodStatus is derived from the period dates, never stored.
type PeriodStatus string

const (
	PeriodStatusActive   PeriodStatus = "active"
	PeriodStatusUpcoming PeriodStatus = "upcoming"
	PeriodStatusEnded    PeriodStatus = "ended"
)

// StaffingRequirement is the number of workers of one profession a work
// period needs.
type StaffingRequirement struct {
	Profession string `json:"profession" validate:"required"`
	Count      int    `json:"count" validate:"required,gt=0"`
}

type WorkPeriod struct {
	ID           string                `json:"id"`
	Name         string                `json:"name" validate:"required"`
	Description  string                `json:"description,omitempty"`
	Location     string                `json:"location,omitempty"`
	StartDate    time.Time             `json:"start_date" validate:"required"`
	EndDate      time.Time             `json:"end_date" validate:"required,gtefield=StartDate"`
	Status       PeriodStatus          `json:"status,omitempty"`
	Requirements []StaffingRequirement `json:"requirements,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type CreateWorkPeriodRequest struct {
	Name         string                `json:"name" validate:"required"`
	Description  string                `json:"description,omitempty"`
	Location     string                `json:"location,omitempty"`
	StartDate    time.Time             `json:"start_date" validate:"required"`
	EndDate      time.Time             `json:"end_date" validate:"required,gtefield=StartDate"`
	Requirements []StaffingRequirement `json:"requirements,omitempty" validate:"dive"`
}

type UpdateWorkPeriodRequest struct {
	Name         *string                `json:"name,omitempty" validate:"omitempty,min=1"`
	Description  *string                `json:"description,omitempty"`
	Location     *string                `json:"location,omitempty"`
	StartDate    *time.Time             `json:"start_date,omitempty"`
	EndDate      *time.Time             `json:"end_date,omitempty"`
	Requirements *[]StaffingRequirement `json:"requirements,omitempty" validate:"omitempty,dive"`
}
