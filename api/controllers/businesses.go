package controllers

import (
	"net/http"

	"github.com/mesafina-app/mesafina-backend/api/middleware"
	"github.com/mesafina-app/mesafina-backend/api/responses"
	"github.com/mesafina-app/mesafina-backend/api/validators"
	businesssvc "github.com/mesafina-app/mesafina-backend/internal/businesses"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
)

type createBusinessRequest struct {
	Name             string  `json:"name" validate:"required,max=160"`
	Address          string  `json:"address" validate:"required,max=300"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Currency         string  `json:"currency,omitempty" validate:"omitempty,oneof=USD MXN"`
	DeliveryFeeCents int     `json:"delivery_fee_cents" validate:"min=0"`
}

type updateBusinessRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,max=160"`
	Address          *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	DeliveryFeeCents *int    `json:"delivery_fee_cents,omitempty" validate:"omitempty,min=0"`
	IsOpen           *bool   `json:"is_open,omitempty"`
}

// BusinessList pages open restaurants for browsing customers.
func BusinessList(svc businesssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		businesses, next, err := svc.List(r.Context(), true, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, newBusinessViews(businesses), next)
	}
}

// BusinessFetch returns one restaurant's public profile.
func BusinessFetch(svc businesssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID, err := validators.ParseUUIDParam(r, "businessID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.FindByID(r.Context(), businessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBusinessView(business))
	}
}

// BusinessCreate registers a restaurant.
func BusinessCreate(svc businesssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBusinessRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.Create(r.Context(), businesssvc.CreateInput{
			Name:             payload.Name,
			Address:          payload.Address,
			Phone:            payload.Phone,
			Currency:         enums.Currency(payload.Currency),
			DeliveryFeeCents: payload.DeliveryFeeCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newBusinessView(business))
	}
}

// BusinessUpdate applies partial changes to the managed business.
func BusinessUpdate(svc businesssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		var payload updateBusinessRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.Update(r.Context(), businessID, businesssvc.UpdateInput{
			Name:             payload.Name,
			Address:          payload.Address,
			Phone:            payload.Phone,
			DeliveryFeeCents: payload.DeliveryFeeCents,
			IsOpen:           payload.IsOpen,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBusinessView(business))
	}
}
