package interfaces

import (
	"context"
	"time"

	"workforce/internal/models"
)

// WorkPeriodFilter narrows List results. Status filtering compares the period
// window against Now so the caller controls the clock.
type WorkPeriodFilter struct {
	Status models.PeriodStatus
	Now    time.Time
	Limit  int
	Offset int
}

type WorkPeriodRepository interface {
	Create(ctx context.Context, period *models.WorkPeriod) error
	GetByID(ctx context.Context, id string) (*models.WorkPeriod, error)
	List(ctx context.Context, filter WorkPeriodFilter) ([]*models.WorkPeriod, error)
	Update(ctx context.Context, id string, req *models.UpdateWorkPeriodRequest) (*models.WorkPeriod, error)
	Delete(ctx context.Context, id string) error
}
