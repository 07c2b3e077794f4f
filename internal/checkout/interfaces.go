package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/internal/cart"
	"github.com/mesafina-app/mesafina-backend/internal/orders"
	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
)

// cartKeeper loads and persists the customer's working cart. The cart
// service satisfies it.
type cartKeeper interface {
	Load(ctx context.Context, customerID uuid.UUID) (*cart.Store, error)
	Save(ctx context.Context, customerID uuid.UUID, store *cart.Store) error
	Discard(ctx context.Context, customerID uuid.UUID) error
	MarkConverted(ctx context.Context, customerID uuid.UUID) error
	ActiveCartID(ctx context.Context, customerID uuid.UUID) (*uuid.UUID, error)
}

// couponFinder resolves a coupon code within a business. The coupons
// service satisfies it.
type couponFinder interface {
	Lookup(ctx context.Context, businessID uuid.UUID, code string) (*models.Coupon, error)
}

// orderSubmitter turns a finished checkout into a persisted order. The
// orders service satisfies it.
type orderSubmitter interface {
	Submit(ctx context.Context, input orders.SubmitInput) (*models.Order, error)
}

// dishLoader resolves dishes added to the cart. The dishes service
// satisfies it.
type dishLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
}

// businessLoader resolves the business a cart is scoped to, for delivery
// fees and opening state.
type businessLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
}
