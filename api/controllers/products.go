package controllers

import (
	"net/http"

	"github.com/scrowmarket/storefront-backend/api/responses"
	"github.com/scrowmarket/storefront-backend/internal/catalog"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

// ProductList exposes the ledger's current product listing.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}
