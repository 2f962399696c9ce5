package repositories

import (
	"context"

	"resourcesvc/internal/models"
)

// ResourceRepository defines the interface for resource data access.
type ResourceRepository interface {
	Create(ctx context.Context, in models.CreateResourceInput) (int64, error)
	FindAll(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error)
	FindByID(ctx context.Context, id int64) (*models.Resource, error)
	Update(ctx context.Context, id int64, in models.UpdateResourceInput) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
