package controllers

import (
	"net/http"

	"github.com/mesafina-app/mesafina-backend/api/middleware"
	"github.com/mesafina-app/mesafina-backend/api/responses"
	"github.com/mesafina-app/mesafina-backend/api/validators"
	dishsvc "github.com/mesafina-app/mesafina-backend/internal/dishes"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
)

type createDishRequest struct {
	Name        string  `json:"name" validate:"required,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=80"`
	PriceCents  int     `json:"price_cents" validate:"min=0"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type updateDishRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=80"`
	PriceCents  *int    `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type dishAvailabilityRequest struct {
	Available bool `json:"available"`
}

// MenuList pages the dishes a business currently offers.
func MenuList(svc dishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID, err := validators.ParseUUIDParam(r, "businessID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dishes, next, err := svc.Menu(r.Context(), businessID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, newDishViews(dishes), next)
	}
}

// DishCreate adds a dish to the managed business's menu.
func DishCreate(svc dishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		var payload createDishRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dish, err := svc.Create(r.Context(), businessID, dishsvc.CreateInput{
			Name:        payload.Name,
			Description: payload.Description,
			Category:    payload.Category,
			PriceCents:  payload.PriceCents,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDishView(dish))
	}
}

// DishUpdate applies partial changes to a dish.
func DishUpdate(svc dishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		dishID, err := validators.ParseUUIDParam(r, "dishID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDishRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dish, err := svc.Update(r.Context(), businessID, dishID, dishsvc.UpdateInput{
			Name:        payload.Name,
			Description: payload.Description,
			Category:    payload.Category,
			PriceCents:  payload.PriceCents,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDishView(dish))
	}
}

// DishSetAvailability toggles a dish on or off the menu.
func DishSetAvailability(svc dishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		dishID, err := validators.ParseUUIDParam(r, "dishID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dishAvailabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dish, err := svc.SetAvailability(r.Context(), businessID, dishID, payload.Available)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDishView(dish))
	}
}

// DishListAll pages every dish of the managed business, including hidden
// ones.
func DishListAll(svc dishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := middleware.BusinessIDFromContext(r.Context())

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dishes, next, err := svc.ListAll(r.Context(), businessID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, newDishViews(dishes), next)
	}
}
