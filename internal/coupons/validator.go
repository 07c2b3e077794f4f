package coupons

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	"github.com/mesafina-app/mesafina-backend/pkg/money"
)

// RejectionReason identifies why a coupon did not apply. Rejections are
// data, not errors: an invalid coupon is a normal outcome of validation.
type RejectionReason string

const (
	ReasonInactive      RejectionReason = "coupon_inactive"
	ReasonExpired       RejectionReason = "coupon_expired"
	ReasonUsageExceeded RejectionReason = "usage_limit_exceeded"
	ReasonMinOrder      RejectionReason = "min_order_not_met"
	ReasonNotApplicable RejectionReason = "not_applicable"
)

// Rejection explains a failed validation. ShortfallCents is set only for
// ReasonMinOrder and tells the customer how much more they need to add.
type Rejection struct {
	Reason         RejectionReason
	ShortfallCents int
}

// AppliedDiscount is the outcome of a successful validation. DiscountCents
// is already capped and clamped; it never exceeds the subtotal.
type AppliedDiscount struct {
	CouponID      uuid.UUID
	Code          string
	DiscountCents int
	Capped        bool
}

// Validate runs the coupon gates in order against a subtotal and the dishes
// in the cart, at the given instant. Exactly one of the results is non-nil.
// Validation never mutates the coupon; usage is counted at order submission.
func Validate(coupon *models.Coupon, subtotalCents int, dishIDs []uuid.UUID, at time.Time) (*AppliedDiscount, *Rejection) {
	if coupon == nil || !coupon.IsActive {
		return nil, &Rejection{Reason: ReasonInactive}
	}
	if coupon.ValidUntil != nil && at.After(*coupon.ValidUntil) {
		return nil, &Rejection{Reason: ReasonExpired}
	}
	if coupon.UsageLimitType == enums.UsageLimitTotal &&
		coupon.TotalUsageLimit != nil && coupon.UsageCount >= *coupon.TotalUsageLimit {
		return nil, &Rejection{Reason: ReasonUsageExceeded}
	}
	if subtotalCents < coupon.MinOrderValueCents {
		return nil, &Rejection{
			Reason:         ReasonMinOrder,
			ShortfallCents: coupon.MinOrderValueCents - subtotalCents,
		}
	}
	if len(coupon.ApplicableDishIDs) > 0 && !coversAnyDish(coupon.ApplicableDishIDs, dishIDs) {
		return nil, &Rejection{Reason: ReasonNotApplicable}
	}

	var raw int
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		raw = money.PercentOf(subtotalCents, coupon.DiscountValue)
	case enums.DiscountTypeFixed:
		raw = coupon.DiscountValue
	default:
		return nil, &Rejection{Reason: ReasonNotApplicable}
	}

	capped := money.CapDiscount(raw, coupon.MaxDiscountCents)
	final := money.ClampDiscount(capped, subtotalCents)

	return &AppliedDiscount{
		CouponID:      coupon.ID,
		Code:          coupon.Code,
		DiscountCents: final,
		Capped:        final < raw,
	}, nil
}

func coversAnyDish(applicable []string, dishIDs []uuid.UUID) bool {
	covered := make(map[string]struct{}, len(applicable))
	for _, id := range applicable {
		covered[id] = struct{}{}
	}
	for _, id := range dishIDs {
		if _, ok := covered[id.String()]; ok {
			return true
		}
	}
	return false
}
