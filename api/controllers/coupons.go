package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/api/middleware"
	"github.com/mesafina-app/mesafina-backend/api/responses"
	"github.com/mesafina-app/mesafina-backend/api/validators"
	couponsvc "github.com/mesafina-app/mesafina-backend/internal/coupons"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
)

type createCouponRequest struct {
	Code               string      `json:"code" validate:"required,max=64"`
	DiscountType       string      `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue      int         `json:"discount_value" validate:"required,min=1"`
	MaxDiscountCents   *int        `json:"max_discount_cents,omitempty" validate:"omitempty,min=1"`
	MinOrderValueCents int         `json:"min_order_value_cents" validate:"min=0"`
	ValidUntil         *time.Time  `json:"valid_until,omitempty"`
	UsageLimitType     string      `json:"usage_limit_type,omitempty" validate:"omitempty,oneof=unlimited total"`
	TotalUsageLimit    *int        `json:"total_usage_limit,omitempty" validate:"omitempty,min=1"`
	ApplicableDishIDs  []uuid.UUID `json:"applicable_dish_ids,omitempty"`
}

type updateCouponRequest struct {
	MaxDiscountCents   *int       `json:"max_discount_cents,omitempty" validate:"omitempty,min=1"`
	MinOrderValueCents *int       `json:"min_order_value_cents,omitempty" validate:"omitempty,min=0"`
	ValidUntil         *time.Time `json:"valid_until,omitempty"`
	TotalUsageLimit    *int       `json:"total_usage_limit,omitempty" validate:"omitempty,min=1"`
	IsActive           *bool      `json:"is_active,omitempty"`
}

// CouponCreate mints a coupon for the managed business.
func CouponCreate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Create(r.Context(), businessID, couponsvc.CreateInput{
			Code:               payload.Code,
			DiscountType:       enums.DiscountType(payload.DiscountType),
			DiscountValue:      payload.DiscountValue,
			MaxDiscountCents:   payload.MaxDiscountCents,
			MinOrderValueCents: payload.MinOrderValueCents,
			ValidUntil:         payload.ValidUntil,
			UsageLimitType:     enums.UsageLimitType(payload.UsageLimitType),
			TotalUsageLimit:    payload.TotalUsageLimit,
			ApplicableDishIDs:  payload.ApplicableDishIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCouponView(coupon))
	}
}

// CouponUpdate applies partial changes to a coupon.
func CouponUpdate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		couponID, err := validators.ParseUUIDParam(r, "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Update(r.Context(), businessID, couponID, couponsvc.UpdateInput{
			MaxDiscountCents:   payload.MaxDiscountCents,
			MinOrderValueCents: payload.MinOrderValueCents,
			ValidUntil:         payload.ValidUntil,
			TotalUsageLimit:    payload.TotalUsageLimit,
			IsActive:           payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCouponView(coupon))
	}
}

// CouponDeactivate turns a coupon off.
func CouponDeactivate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		couponID, err := validators.ParseUUIDParam(r, "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), businessID, couponID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// CouponList pages the managed business's coupons.
func CouponList(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupons, next, err := svc.List(r.Context(), businessID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, newCouponViews(coupons), next)
	}
}
