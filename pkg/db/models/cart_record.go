package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/pkg/enums"
)

// CartRecord is the persisted snapshot of one customer's working cart. The
// in-memory store remains the source of truth during an active session;
// records exist so a cart survives process restarts.
type CartRecord struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID        `gorm:"column:customer_id;type:uuid;not null"`
	BusinessID    uuid.UUID        `gorm:"column:business_id;type:uuid;not null"`
	Status        enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Currency      enums.Currency   `gorm:"column:currency;not null;default:'USD'"`
	SubtotalCents int              `gorm:"column:subtotal_cents;not null;default:0"`
	Items         []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
