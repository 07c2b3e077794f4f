package orders

import (
	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/pkg/enums"
)

// Line is one frozen cart line handed to Submit. Amounts are integer cents.
type Line struct {
	DishID         uuid.UUID
	Name           string
	UnitPriceCents int
	Quantity       int
}

// SubmitInput is everything Submit needs to mint an order. The amounts were
// already computed by checkout; Submit re-derives the total as a guard.
type SubmitInput struct {
	CustomerID      uuid.UUID
	BusinessID      uuid.UUID
	CartID          *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Notes           *string
	Currency        enums.Currency

	Lines            []Line
	CouponID         *uuid.UUID
	CouponCode       *string
	SubtotalCents    int
	DiscountCents    int
	DeliveryFeeCents int
}
