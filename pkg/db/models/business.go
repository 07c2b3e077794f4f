package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/pkg/enums"
)

// Business is a restaurant a cart is scoped to.
type Business struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string         `gorm:"column:name;not null"`
	Address          string         `gorm:"column:address;not null"`
	Phone            *string        `gorm:"column:phone"`
	Currency         enums.Currency `gorm:"column:currency;not null;default:'USD'"`
	DeliveryFeeCents int            `gorm:"column:delivery_fee_cents;not null;default:0"`
	IsOpen           bool           `gorm:"column:is_open;not null;default:true"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
