package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/internal/cart"
	"github.com/mesafina-app/mesafina-backend/internal/checkout"
	"github.com/mesafina-app/mesafina-backend/internal/coupons"
	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/money"
)

// displayAmount renders integer cents as a major-unit string for clients
// that show prices without doing their own money math.
func displayAmount(cents int) string {
	return money.Decimal(cents).StringFixed(2)
}

type cartItemView struct {
	DishID         uuid.UUID `json:"dish_id"`
	DishName       string    `json:"dish_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

type rejectionView struct {
	Reason         string `json:"reason"`
	ShortfallCents int    `json:"shortfall_cents,omitempty"`
}

type cartView struct {
	BusinessID       *uuid.UUID     `json:"business_id,omitempty"`
	Items            []cartItemView `json:"items"`
	SubtotalCents    int            `json:"subtotal_cents"`
	DiscountCents    int            `json:"discount_cents"`
	DeliveryFeeCents int            `json:"delivery_fee_cents"`
	TotalCents       int            `json:"total_cents"`
	Total            string         `json:"total"`
	CouponCode       *string        `json:"coupon_code,omitempty"`
	CouponRejection  *rejectionView `json:"coupon_rejection,omitempty"`
	Phase            string         `json:"checkout_phase"`
}

func newCartView(quote *checkout.Quote) cartView {
	view := cartView{
		Items:            make([]cartItemView, 0, len(quote.Items)),
		SubtotalCents:    quote.SubtotalCents,
		DiscountCents:    quote.DiscountCents,
		DeliveryFeeCents: quote.DeliveryFeeCents,
		TotalCents:       quote.TotalCents,
		Total:            displayAmount(quote.TotalCents),
		CouponCode:       quote.CouponCode,
		Phase:            string(quote.Phase),
	}
	if quote.BusinessID != uuid.Nil {
		id := quote.BusinessID
		view.BusinessID = &id
	}
	for _, item := range quote.Items {
		view.Items = append(view.Items, newCartItemView(item))
	}
	if quote.Rejection != nil {
		view.CouponRejection = newRejectionView(quote.Rejection)
	}
	return view
}

func newCartItemView(item cart.Item) cartItemView {
	return cartItemView{
		DishID:         item.DishID,
		DishName:       item.DishName,
		UnitPriceCents: item.UnitPriceCents,
		Quantity:       item.Quantity,
		LineTotalCents: item.LineTotalCents(),
		ImageURL:       item.ImageURL,
	}
}

func newRejectionView(rejection *coupons.Rejection) *rejectionView {
	return &rejectionView{
		Reason:         string(rejection.Reason),
		ShortfallCents: rejection.ShortfallCents,
	}
}

type orderLineView struct {
	DishID         uuid.UUID `json:"dish_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
}

type orderView struct {
	ID               uuid.UUID       `json:"id"`
	BusinessID       uuid.UUID       `json:"business_id"`
	CustomerName     string          `json:"customer_name"`
	CustomerPhone    string          `json:"customer_phone"`
	DeliveryAddress  string          `json:"delivery_address"`
	Notes            *string         `json:"notes,omitempty"`
	CouponCode       *string         `json:"coupon_code,omitempty"`
	Currency         string          `json:"currency"`
	SubtotalCents    int             `json:"subtotal_cents"`
	DiscountCents    int             `json:"discount_cents"`
	DeliveryFeeCents int             `json:"delivery_fee_cents"`
	TotalCents       int             `json:"total_cents"`
	Total            string          `json:"total"`
	Status           string          `json:"status"`
	Items            []orderLineView `json:"items"`
	CreatedAt        time.Time       `json:"created_at"`
}

func newOrderView(order *models.Order) orderView {
	view := orderView{
		ID:               order.ID,
		BusinessID:       order.BusinessID,
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		DeliveryAddress:  order.DeliveryAddress,
		Notes:            order.Notes,
		CouponCode:       order.CouponCode,
		Currency:         string(order.Currency),
		SubtotalCents:    order.SubtotalCents,
		DiscountCents:    order.DiscountCents,
		DeliveryFeeCents: order.DeliveryFeeCents,
		TotalCents:       order.TotalCents,
		Total:            displayAmount(order.TotalCents),
		Status:           string(order.Status),
		Items:            make([]orderLineView, 0, len(order.Items)),
		CreatedAt:        order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderLineView{
			DishID:         item.DishID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return view
}

func newOrderViews(orders []models.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return views
}

type couponView struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	DiscountType       string     `json:"discount_type"`
	DiscountValue      int        `json:"discount_value"`
	MaxDiscountCents   *int       `json:"max_discount_cents,omitempty"`
	MinOrderValueCents int        `json:"min_order_value_cents"`
	ValidUntil         *time.Time `json:"valid_until,omitempty"`
	UsageLimitType     string     `json:"usage_limit_type"`
	TotalUsageLimit    *int       `json:"total_usage_limit,omitempty"`
	UsageCount         int        `json:"usage_count"`
	ApplicableDishIDs  []string   `json:"applicable_dish_ids,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
}

func newCouponView(coupon *models.Coupon) couponView {
	return couponView{
		ID:                 coupon.ID,
		Code:               coupon.Code,
		DiscountType:       string(coupon.DiscountType),
		DiscountValue:      coupon.DiscountValue,
		MaxDiscountCents:   coupon.MaxDiscountCents,
		MinOrderValueCents: coupon.MinOrderValueCents,
		ValidUntil:         coupon.ValidUntil,
		UsageLimitType:     string(coupon.UsageLimitType),
		TotalUsageLimit:    coupon.TotalUsageLimit,
		UsageCount:         coupon.UsageCount,
		ApplicableDishIDs:  coupon.ApplicableDishIDs,
		IsActive:           coupon.IsActive,
		CreatedAt:          coupon.CreatedAt,
	}
}

func newCouponViews(coupons []models.Coupon) []couponView {
	views := make([]couponView, 0, len(coupons))
	for i := range coupons {
		views = append(views, newCouponView(&coupons[i]))
	}
	return views
}

type dishView struct {
	ID          uuid.UUID `json:"id"`
	BusinessID  uuid.UUID `json:"business_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Price       string    `json:"price"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsAvailable bool      `json:"is_available"`
}

func newDishView(dish *models.Dish) dishView {
	return dishView{
		ID:          dish.ID,
		BusinessID:  dish.BusinessID,
		Name:        dish.Name,
		Description: dish.Description,
		Category:    dish.Category,
		PriceCents:  dish.PriceCents,
		Price:       displayAmount(dish.PriceCents),
		ImageURL:    dish.ImageURL,
		IsAvailable: dish.IsAvailable,
	}
}

func newDishViews(dishes []models.Dish) []dishView {
	views := make([]dishView, 0, len(dishes))
	for i := range dishes {
		views = append(views, newDishView(&dishes[i]))
	}
	return views
}

type businessView struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	Phone            *string   `json:"phone,omitempty"`
	Currency         string    `json:"currency"`
	DeliveryFeeCents int       `json:"delivery_fee_cents"`
	IsOpen           bool      `json:"is_open"`
}

func newBusinessView(business *models.Business) businessView {
	return businessView{
		ID:               business.ID,
		Name:             business.Name,
		Address:          business.Address,
		Phone:            business.Phone,
		Currency:         string(business.Currency),
		DeliveryFeeCents: business.DeliveryFeeCents,
		IsOpen:           business.IsOpen,
	}
}

func newBusinessViews(businesses []models.Business) []businessView {
	views := make([]businessView, 0, len(businesses))
	for i := range businesses {
		views = append(views, newBusinessView(&businesses[i]))
	}
	return views
}
