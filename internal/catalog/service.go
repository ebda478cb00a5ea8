package catalog

import (
	"context"
	"fmt"

	"github.com/scrowmarket/storefront-backend/internal/cart"
	"github.com/scrowmarket/storefront-backend/internal/ledger"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
	"github.com/scrowmarket/storefront-backend/pkg/minorunits"
)

// Product is the storefront view of a listed item. Price is a decimal
// string rendered from the ledger's minor units.
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PriceDecimal string `json:"price"`
	Description  string `json:"description"`
	Available    bool   `json:"available"`
	ImageURL     string `json:"imageUrl"`
	SellerID     string `json:"sellerId"`
}

// Service lists products straight off the ledger.
type Service interface {
	List(ctx context.Context) ([]Product, error)
	Find(ctx context.Context, productID int64) (Product, error)
}

type service struct {
	gateway ledger.Gateway
	logg    *logger.Logger
}

func NewService(gateway ledger.Gateway, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("ledger gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gateway: gateway, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	raw, err := s.gateway.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Product, 0, len(raw))
	for _, p := range raw {
		price, err := minorunits.ToDecimalString(p.PriceMinor, minorunits.LedgerDecimals)
		if err != nil {
			return nil, err
		}
		out = append(out, Product{
			ID:           p.ID,
			Name:         p.Name,
			PriceDecimal: price,
			Description:  p.Description,
			Available:    p.Available,
			ImageURL:     p.ImageURL,
			SellerID:     p.SellerID,
		})
	}
	return out, nil
}

// Find looks a single product up from the current listing. The cart layer
// uses it to freeze a snapshot of the line being added.
func (s *service) Find(ctx context.Context, productID int64) (Product, error) {
	listed, err := s.List(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range listed {
		if p.ID == productID {
			return p, nil
		}
	}
	return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not listed").
		WithDetails(map[string]any{"product_id": productID})
}

// Snapshot converts a catalog product into the cart's frozen line form.
func Snapshot(p Product) cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ID:           p.ID,
		Name:         p.Name,
		PriceDecimal: p.PriceDecimal,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		SellerID:     p.SellerID,
	}
}
