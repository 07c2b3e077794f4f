package businesses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

// Repository is the business persistence surface.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	Create(ctx context.Context, business *models.Business) (*models.Business, error)
	Update(ctx context.Context, business *models.Business) (*models.Business, error)
	List(ctx context.Context, openOnly bool, params pagination.Params) ([]models.Business, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a business repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *repository) Create(ctx context.Context, business *models.Business) (*models.Business, error) {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

func (r *repository) Update(ctx context.Context, business *models.Business) (*models.Business, error) {
	if err := r.db.WithContext(ctx).Save(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

func (r *repository) List(ctx context.Context, openOnly bool, params pagination.Params) ([]models.Business, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if openOnly {
		query = query.Where("is_open = ?", true)
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

	var businesses []models.Business
	if err := query.Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}
