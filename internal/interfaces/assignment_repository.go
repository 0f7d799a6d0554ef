package interfaces

import (
	"context"

	"workforce/internal/models"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Assignment, error)
	ListByWorkPeriod(ctx context.Context, workPeriodID string) ([]*models.Assignment, error)
	Update(ctx context.Context, id string, req *models.UpdateAssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, id string) error
}
