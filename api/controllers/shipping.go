package controllers

import (
	"net/http"

	"github.com/scrowmarket/storefront-backend/api/middleware"
	"github.com/scrowmarket/storefront-backend/api/responses"
	"github.com/scrowmarket/storefront-backend/api/validators"
	"github.com/scrowmarket/storefront-backend/internal/shipping"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

type shippingAddressRequest struct {
	Address string `json:"address" validate:"required"`
}

type shippingAddressView struct {
	Bound   bool   `json:"bound"`
	Address string `json:"address,omitempty"`
}

// ShippingAddressFetch reads the caller's bound address off the ledger.
func ShippingAddressFetch(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		account := middleware.AccountFromContext(r.Context())
		bound, err := svc.IsBound(r.Context(), account)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := shippingAddressView{Bound: bound}
		if bound {
			address, err := svc.Get(r.Context(), account)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			view.Address = address
		}

		responses.WriteSuccess(w, view)
	}
}

// ShippingAddressBind writes the caller's shipping address to the ledger.
func ShippingAddressBind(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		var payload shippingAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account := middleware.AccountFromContext(r.Context())
		if err := svc.Set(r.Context(), account, payload.Address); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shippingAddressView{Bound: true, Address: payload.Address})
	}
}
