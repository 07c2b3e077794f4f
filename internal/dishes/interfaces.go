package dishes

import (
	"context"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

// Repository is the dish persistence surface.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	Create(ctx context.Context, dish *models.Dish) (*models.Dish, error)
	Update(ctx context.Context, dish *models.Dish) (*models.Dish, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, availableOnly bool, params pagination.Params) ([]models.Dish, error)
}
