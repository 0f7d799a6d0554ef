package models

import (
	"encoding/json"
	"time"
)

// WorkHoursEntry is one day's logged hours for one assignment, keyed by
// (user_assignment_id, date). Once Editable is false the entry is frozen for
// everyone.
type WorkHoursEntry struct {
	ID               string    `json:"id"`
	UserAssignmentID string    `json:"user_assignment_id"`
	Date             time.Time `json:"date"`
	HoursWorked      float64   `json:"hours_worked"`
	Note             string    `json:"note,omitempty"`
	Editable         bool      `json:"editable"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DateOnly is a calendar day in a request body. It accepts both the plain
// "2006-01-02" form used by the list query params and a full RFC 3339
// timestamp.
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

type UpsertWorkHoursRequest struct {
	Date        DateOnly `json:"date" validate:"required"`
	HoursWorked float64  `json:"hours_worked" validate:"required,gt=0,lte=24"`
	Note        string   `json:"note,omitempty"`
}
