package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/internal/cart"
	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/money"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

// Service mints orders from submitted checkouts and serves order history.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Order, error)
	Get(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, string, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, businessID, id uuid.UUID, next enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	coupons couponRecorder
	carts   cartConverter
}

// NewService wires an order service. The coupon recorder and cart converter
// are required so submission stays a single transaction.
func NewService(repo Repository, tx txRunner, coupons couponRecorder, carts cartConverter) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders service: repo is required")
	}
	if tx == nil {
		return nil, errors.New("orders service: tx runner is required")
	}
	if coupons == nil {
		return nil, errors.New("orders service: coupon recorder is required")
	}
	if carts == nil {
		return nil, errors.New("orders service: cart converter is required")
	}
	return &service{repo: repo, tx: tx, coupons: coupons, carts: carts}, nil
}

// Submit freezes the checkout into an order. The order row, its line items,
// the coupon redemption, and the cart conversion commit or roll back
// together.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	if err := validateSubmit(input); err != nil {
		return nil, err
	}

	items := make([]models.OrderLineItem, 0, len(input.Lines))
	subtotal := 0
	for i, line := range input.Lines {
		lineTotal := line.UnitPriceCents * line.Quantity
		subtotal += lineTotal
		items = append(items, models.OrderLineItem{
			DishID:         line.DishID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: lineTotal,
			Position:       i,
		})
	}
	if subtotal != input.SubtotalCents {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart totals drifted from line items")
	}

	discount := money.ClampDiscount(input.DiscountCents, subtotal)
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}

	order := &models.Order{
		BusinessID:       input.BusinessID,
		CustomerID:       input.CustomerID,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
		DeliveryAddress:  input.DeliveryAddress,
		Notes:            input.Notes,
		CouponCode:       input.CouponCode,
		Currency:         currency,
		SubtotalCents:    subtotal,
		DiscountCents:    discount,
		DeliveryFeeCents: input.DeliveryFeeCents,
		TotalCents:       subtotal - discount + input.DeliveryFeeCents,
		Status:           enums.OrderStatusPending,
		Items:            items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
		}
		if input.CouponID != nil {
			if err := s.coupons.RecordUse(ctx, tx, *input.CouponID); err != nil {
				return err
			}
		}
		if input.CartID != nil {
			if err := s.carts.Convert(ctx, tx, *input.CartID, input.CustomerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to convert cart")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns one of the customer's orders with its line items.
func (s *service) Get(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	if customerID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id and order id are required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, string, error) {
	if customerID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	orders, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	orders, next := pageOrders(orders, params)
	return orders, next, nil
}

func (s *service) ListByBusiness(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Order, string, error) {
	if businessID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}
	orders, err := s.repo.ListByBusiness(ctx, businessID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	orders, next := pageOrders(orders, params)
	return orders, next, nil
}

// UpdateStatus advances one of the business's orders through the accepted
// transitions: pending to accepted or canceled, accepted to completed or
// canceled.
func (s *service) UpdateStatus(ctx context.Context, businessID, id uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if businessID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id and order id are required")
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	if order.BusinessID != businessID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !transitionAllowed(order.Status, next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").WithDetails(map[string]any{
			"from": order.Status,
			"to":   next,
		})
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order status")
	}
	order.Status = next
	return order, nil
}

func validateSubmit(input SubmitInput) error {
	switch {
	case input.CustomerID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	case input.BusinessID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	case len(input.Lines) == 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	case input.CustomerName == "" || input.CustomerPhone == "" || input.DeliveryAddress == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer contact details are required")
	case input.DiscountCents < 0 || input.DeliveryFeeCents < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "amounts cannot be negative")
	}
	for _, line := range input.Lines {
		if line.DishID == uuid.Nil || line.Quantity <= 0 || line.UnitPriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order lines must have a dish, positive quantity and non-negative price")
		}
	}
	return nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	switch from {
	case enums.OrderStatusPending:
		return to == enums.OrderStatusAccepted || to == enums.OrderStatusCanceled
	case enums.OrderStatusAccepted:
		return to == enums.OrderStatusCompleted || to == enums.OrderStatusCanceled
	default:
		return false
	}
}

func pageOrders(orders []models.Order, params pagination.Params) ([]models.Order, string) {
	limit := pagination.NormalizeLimit(params.Limit)
	if len(orders) <= limit {
		return orders, ""
	}
	orders = orders[:limit]
	last := orders[len(orders)-1]
	return orders, pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
}

// cartRepoConverter adapts the cart repository to the submission
// transaction.
type cartRepoConverter struct {
	repo cart.Repository
}

// NewCartConverter wraps a cart repository for use inside Submit.
func NewCartConverter(repo cart.Repository) *cartRepoConverter {
	return &cartRepoConverter{repo: repo}
}

func (c *cartRepoConverter) Convert(ctx context.Context, tx *gorm.DB, cartID, customerID uuid.UUID) error {
	return c.repo.WithTx(tx).UpdateStatus(ctx, cartID, customerID, enums.CartStatusConverted)
}
