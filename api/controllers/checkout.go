package controllers

import (
	"net/http"
	"sort"

	"github.com/scrowmarket/storefront-backend/api/middleware"
	"github.com/scrowmarket/storefront-backend/api/responses"
	"github.com/scrowmarket/storefront-backend/internal/cart"
	"github.com/scrowmarket/storefront-backend/internal/checkout"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

type checkoutOutcome struct {
	SellerID string `json:"sellerId"`
	Status   string `json:"status"`
	TxHash   string `json:"txHash,omitempty"`
	Error    string `json:"error,omitempty"`
}

type checkoutResult struct {
	Outcomes []checkoutOutcome `json:"outcomes"`
}

// Checkout submits the cart as one ledger order per seller. Sellers succeed
// or fail independently; the response always carries every outcome, and only
// fully failed checkouts surface as an error status.
func Checkout(svc checkout.Service, carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		store, err := storeFromRequest(carts, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account := middleware.AccountFromContext(r.Context())
		outcomes, submitErr := svc.SubmitAll(r.Context(), account, store)
		if len(outcomes) == 0 {
			responses.WriteError(r.Context(), logg, w, submitErr)
			return
		}

		result := newCheckoutResult(outcomes)
		if submitErr != nil {
			if logg != nil {
				logg.Error(r.Context(), "checkout finished with failed sellers", submitErr)
			}
			responses.WriteSuccessStatus(w, http.StatusMultiStatus, result)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func newCheckoutResult(outcomes map[string]checkout.Outcome) checkoutResult {
	sellers := make([]string, 0, len(outcomes))
	for sellerID := range outcomes {
		sellers = append(sellers, sellerID)
	}
	sort.Strings(sellers)

	result := checkoutResult{Outcomes: make([]checkoutOutcome, 0, len(sellers))}
	for _, sellerID := range sellers {
		outcome := outcomes[sellerID]
		entry := checkoutOutcome{
			SellerID: outcome.SellerID,
			Status:   string(outcome.Status),
			TxHash:   outcome.TxHash,
		}
		if outcome.Err != nil {
			if typed := pkgerrors.As(outcome.Err); typed != nil {
				entry.Error = string(typed.Code())
			} else {
				entry.Error = string(pkgerrors.CodeInternal)
			}
		}
		result.Outcomes = append(result.Outcomes, entry)
	}
	return result
}
