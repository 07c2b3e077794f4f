package dishes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a dish repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	var dish models.Dish
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dish).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *repository) Create(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if err := r.db.WithContext(ctx).Create(dish).Error; err != nil {
		return nil, err
	}
	return dish, nil
}

func (r *repository) Update(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if err := r.db.WithContext(ctx).Save(dish).Error; err != nil {
		return nil, err
	}
	return dish, nil
}

func (r *repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, availableOnly bool, params pagination.Params) ([]models.Dish, error) {
	query := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var dishes []models.Dish
	if err := query.Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}
