package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mesafina-app/mesafina-backend/pkg/enums"
)

// Coupon is a promotional code owned by one business. The customer-side
// validator consumes it read-only; only order submission mutates UsageCount.
type Coupon struct {
	ID                 uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID         uuid.UUID            `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_coupons_business_code"`
	Code               string               `gorm:"column:code;not null;uniqueIndex:idx_coupons_business_code"`
	DiscountType       enums.DiscountType   `gorm:"column:discount_type;not null"`
	DiscountValue      int                  `gorm:"column:discount_value;not null"`
	MaxDiscountCents   *int                 `gorm:"column:max_discount_cents"`
	MinOrderValueCents int                  `gorm:"column:min_order_value_cents;not null;default:0"`
	ValidUntil         *time.Time           `gorm:"column:valid_until"`
	UsageLimitType     enums.UsageLimitType `gorm:"column:usage_limit_type;not null;default:'unlimited'"`
	TotalUsageLimit    *int                 `gorm:"column:total_usage_limit"`
	UsageCount         int                  `gorm:"column:usage_count;not null;default:0"`
	ApplicableDishIDs  pq.StringArray       `gorm:"column:applicable_dish_ids;type:text[]"`
	IsActive           bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
