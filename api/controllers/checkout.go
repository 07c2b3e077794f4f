package controllers

import (
	"net/http"

	"github.com/mesafina-app/mesafina-backend/api/responses"
	"github.com/mesafina-app/mesafina-backend/api/validators"
	"github.com/mesafina-app/mesafina-backend/internal/checkout"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
	"github.com/mesafina-app/mesafina-backend/pkg/stream"
)

type submitRequest struct {
	Name            string  `json:"name" validate:"required,max=120"`
	Phone           string  `json:"phone" validate:"required,max=32"`
	DeliveryAddress string  `json:"delivery_address" validate:"required,max=300"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CheckoutSubmit runs the customer's checkout to completion and returns the
// created order. The underlying submission is consumed as a result stream;
// the request context cancels it.
func CheckoutSubmit(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := customerSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		states := session.SubmitStream(r.Context(), checkout.ContactInfo{
			Name:            validators.SanitizeString(payload.Name, 120),
			Phone:           validators.SanitizeString(payload.Phone, 32),
			DeliveryAddress: validators.SanitizeString(payload.DeliveryAddress, 300),
			Notes:           payload.Notes,
		})

		final := stream.Await(states)
		if final.Phase == stream.PhaseError {
			responses.WriteError(r.Context(), logg, w, final.Err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderView(final.Value.Order))
	}
}
