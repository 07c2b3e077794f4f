package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/api/middleware"
	"github.com/mesafina-app/mesafina-backend/api/responses"
	"github.com/mesafina-app/mesafina-backend/api/validators"
	"github.com/mesafina-app/mesafina-backend/internal/checkout"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
)

type addItemRequest struct {
	DishID   uuid.UUID `json:"dish_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

func customerSession(r *http.Request, svc *checkout.Service) (*checkout.Session, error) {
	customerID := middleware.CustomerIDFromContext(r.Context())
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	return svc.Session(r.Context(), customerID)
}

// CartFetch returns the priced view of the customer's cart.
func CartFetch(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := session.Quote(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(quote))
	}
}

// CartAddItem merges a dish into the cart.
func CartAddItem(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.AddItem(r.Context(), payload.DishID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(w, r, session, logg)
	}
}

// CartUpdateItem sets a line's quantity; zero removes it.
func CartUpdateItem(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dishID, err := validators.ParseUUIDParam(r, "dishID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.UpdateQuantity(r.Context(), dishID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(w, r, session, logg)
	}
}

// CartRemoveItem drops a dish from the cart.
func CartRemoveItem(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dishID, err := validators.ParseUUIDParam(r, "dishID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.RemoveItem(r.Context(), dishID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(w, r, session, logg)
	}
}

// CartClear empties the cart and detaches any coupon.
func CartClear(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(w, r, session, logg)
	}
}

// CartApplyCoupon attaches a coupon. Validation failures come back in the
// cart view, not as HTTP errors.
func CartApplyCoupon(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, rejection, err := session.ApplyCoupon(r.Context(), validators.SanitizeString(payload.Code, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := session.Quote(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view := newCartView(quote)
		if rejection != nil {
			view.CouponRejection = newRejectionView(rejection)
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveCoupon detaches the cart's coupon.
func CartRemoveCoupon(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.RemoveCoupon(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeQuote(w, r, session, logg)
	}
}

func writeQuote(w http.ResponseWriter, r *http.Request, session *checkout.Session, logg *logger.Logger) {
	quote, err := session.Quote(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, newCartView(quote))
}
