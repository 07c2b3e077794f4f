package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

// Repository is the order persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// txRunner runs a function inside one database transaction. The db client
// satisfies it.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// couponRecorder re-checks and counts a coupon redemption inside the
// submission transaction. The coupons service satisfies it.
type couponRecorder interface {
	RecordUse(ctx context.Context, tx *gorm.DB, couponID uuid.UUID) error
}

// cartConverter stamps the submitted cart converted inside the same
// transaction. The cart repository satisfies it through an adapter below.
type cartConverter interface {
	Convert(ctx context.Context, tx *gorm.DB, cartID, customerID uuid.UUID) error
}
