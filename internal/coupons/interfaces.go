package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

// Repository is the coupon persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByBusinessAndCode(ctx context.Context, businessID uuid.UUID, code string) (*models.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Coupon, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// Cache is the read-through snapshot store for customer-facing lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CouponKey(businessID, code string) string
}
