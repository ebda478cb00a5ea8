package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scrowmarket/storefront-backend/api/middleware"
	"github.com/scrowmarket/storefront-backend/api/responses"
	"github.com/scrowmarket/storefront-backend/api/validators"
	"github.com/scrowmarket/storefront-backend/internal/cart"
	"github.com/scrowmarket/storefront-backend/internal/catalog"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

type cartAddRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type cartLine struct {
	ProductID    int64  `json:"productId"`
	Name         string `json:"name"`
	PriceDecimal string `json:"price"`
	ImageURL     string `json:"imageUrl,omitempty"`
	SellerID     string `json:"sellerId"`
	Quantity     int    `json:"quantity"`
}

type cartView struct {
	Items []cartLine `json:"items"`
}

// CartFetch returns the caller's current cart lines.
func CartFetch(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(carts, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartAddItem snapshots the listed product and merges it into the cart.
func CartAddItem(carts *cart.Registry, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(carts, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.Find(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Add(catalog.Snapshot(product), payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartIncrement bumps a line's quantity by one. Unknown lines are a no-op.
func CartIncrement(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, productID, err := storeAndProductFromRequest(carts, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Increment(productID)
		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartDecrement drops a line's quantity by one, removing the line at zero.
func CartDecrement(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, productID, err := storeAndProductFromRequest(carts, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Decrement(productID)
		responses.WriteSuccess(w, newCartView(store))
	}
}

func storeFromRequest(carts *cart.Registry, r *http.Request) (*cart.Store, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable")
	}
	account := middleware.AccountFromContext(r.Context())
	if account == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account context missing")
	}
	return carts.ForAccount(account), nil
}

func storeAndProductFromRequest(carts *cart.Registry, r *http.Request) (*cart.Store, int64, error) {
	store, err := storeFromRequest(carts, r)
	if err != nil {
		return nil, 0, err
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return store, productID, nil
}

func newCartView(store *cart.Store) cartView {
	entries := store.Snapshot()
	view := cartView{Items: make([]cartLine, 0, len(entries))}
	for _, entry := range entries {
		view.Items = append(view.Items, cartLine{
			ProductID:    entry.Product.ID,
			Name:         entry.Product.Name,
			PriceDecimal: entry.Product.PriceDecimal,
			ImageURL:     entry.Product.ImageURL,
			SellerID:     entry.Product.SellerID,
			Quantity:     entry.Quantity,
		})
	}
	return view
}
