package models

import "time"

// Assignment binds one worker to one work period for a sub-range of the
// period's dates and a profession.
type Assignment struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id" validate:"required,uuid4"`
	WorkPeriodID string       `json:"work_period_id" validate:"required,uuid4"`
	FromDate     time.Time    `json:"from_date" validate:"required"`
	ToDate       time.Time    `json:"to_date" validate:"required,gtefield=FromDate"`
	Profession   string       `json:"profession" validate:"required"`
	Status       PeriodStatus `json:"status,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type CreateAssignmentRequest struct {
	UserID       string    `json:"user_id" validate:"required,uuid4"`
	WorkPeriodID string    `json:"work_period_id" validate:"required,uuid4"`
	FromDate     time.Time `json:"from_date" validate:"required"`
	ToDate       time.Time `json:"to_date" validate:"required,gtefield=FromDate"`
	Profession   string    `json:"profession" validate:"required"`
}

type UpdateAssignmentRequest struct {
	FromDate   *time.Time `json:"from_date,omitempty"`
	ToDate     *time.Time `json:"to_date,omitempty"`
	Profession *string    `json:"profession,omitempty" validate:"omitempty,min=1"`
}
