package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/pkg/enums"
)

// Order is the immutable snapshot produced by checkout. Items and amounts
// never change after creation; Status is managed elsewhere and starts as
// pending.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID       uuid.UUID         `gorm:"column:business_id;type:uuid;not null"`
	CustomerID       uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	CustomerName     string            `gorm:"column:customer_name;not null"`
	CustomerPhone    string            `gorm:"column:customer_phone;not null"`
	DeliveryAddress  string            `gorm:"column:delivery_address;not null"`
	Notes            *string           `gorm:"column:notes"`
	CouponCode       *string           `gorm:"column:coupon_code"`
	Currency         enums.Currency    `gorm:"column:currency;not null;default:'USD'"`
	SubtotalCents    int               `gorm:"column:subtotal_cents;not null"`
	DiscountCents    int               `gorm:"column:discount_cents;not null;default:0"`
	DeliveryFeeCents int               `gorm:"column:delivery_fee_cents;not null;default:0"`
	TotalCents       int               `gorm:"column:total_cents;not null"`
	Status           enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Items            []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
