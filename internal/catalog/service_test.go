package catalog

import (
	"context"
	"io"
	"math/big"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scrowmarket/storefront-backend/internal/ledger"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

type stubGateway struct {
	products []ledger.Product
	err      error
}

func (g *stubGateway) GetAllProducts(ctx context.Context) ([]ledger.Product, error) {
	return g.products, g.err
}

func (g *stubGateway) GetOrdersByBuyer(ctx context.Context, account string) ([]ledger.Order, error) {
	return nil, nil
}

func (g *stubGateway) GetOrdersBySeller(ctx context.Context, account string) ([]ledger.Order, error) {
	return nil, nil
}

func (g *stubGateway) HasShippingAddress(ctx context.Context, account string) (bool, error) {
	return false, nil
}

func (g *stubGateway) GetShippingAddress(ctx context.Context, account string) (string, error) {
	return "", nil
}

func (g *stubGateway) SetShippingAddress(ctx context.Context, account, address string) (ledger.PendingTx, error) {
	return nil, nil
}

func (g *stubGateway) PlaceOrder(ctx context.Context, account string, items []ledger.PlaceOrderItem, valueMinor *big.Int) (ledger.PendingTx, error) {
	return nil, nil
}

func (g *stubGateway) FulfillOrder(ctx context.Context, account string, orderID int64) (ledger.PendingTx, error) {
	return nil, nil
}

func (g *stubGateway) AcceptOrder(ctx context.Context, account string, orderID int64) (ledger.PendingTx, error) {
	return nil, nil
}

func newTestService(t *testing.T, gw ledger.Gateway) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(gw, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func minor(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad fixture: " + s)
	}
	return v
}

func TestListRendersDecimalPrices(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{products: []ledger.Product{
		{ID: 1, Name: "beans", PriceMinor: minor("1500000000000000000"), Available: true, SellerID: "S1"},
		{ID: 2, Name: "rice", PriceMinor: minor("3000000000000000000"), Available: false, SellerID: "S2"},
	}}

	got, err := newTestService(t, gw).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products", len(got))
	}
	if got[0].PriceDecimal != "1.5" || !got[0].Available {
		t.Fatalf("product 1 = %+v", got[0])
	}
	if got[1].PriceDecimal != "3" || got[1].Available {
		t.Fatalf("product 2 = %+v", got[1])
	}
}

func TestListPropagatesLedgerFailure(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{err: pkgerrors.New(pkgerrors.CodeLedgerDown, "provider unreachable")}
	_, err := newTestService(t, gw).List(context.Background())
	if !pkgerrors.Is(err, pkgerrors.CodeLedgerDown) {
		t.Fatalf("expected LEDGER_UNAVAILABLE, got %v", err)
	}
}

func TestFindUnknownProduct(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{products: []ledger.Product{
		{ID: 1, Name: "beans", PriceMinor: minor("1"), SellerID: "S1"},
	}}

	_, err := newTestService(t, gw).Find(context.Background(), 99)
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	found, err := newTestService(t, gw).Find(context.Background(), 1)
	if err != nil || found.Name != "beans" {
		t.Fatalf("found = %+v, %v", found, err)
	}
}
