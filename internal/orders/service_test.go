package orders

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

type stubTx struct {
	hash    string
	waitErr error
}

func (t *stubTx) Hash() string                   { return t.hash }
func (t *stubTx) Wait(ctx context.Context) error { return t.waitErr }

type stubGateway struct {
	buyerOrders  []ledger.Order
	sellerOrders []ledger.Order
	readErr      error

	fulfillCalls []int64
	acceptCalls  []int64
	writeErr     error
	waitErr      error
}

func (g *stubGateway) GetAllProducts(ctx context.Context) ([]ledger.Product, error) { return nil, nil }

func (g *stubGateway) GetOrdersByBuyer(ctx context.Context, account string) ([]ledger.Order, error) {
	return g.buyerOrders, g.readErr
}

func (g *stubGateway) GetOrdersBySeller(ctx context.Context, account string) ([]ledger.Order, error) {
	return g.sellerOrders, g.readErr
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
	g.fulfillCalls = append(g.fulfillCalls, orderID)
	if g.writeErr != nil {
		return nil, g.writeErr
	}
	return &stubTx{hash: "0xfulfill", waitErr: g.waitErr}, nil
}

func (g *stubGateway) AcceptOrder(ctx context.Context, account string, orderID int64) (ledger.PendingTx, error) {
	g.acceptCalls = append(g.acceptCalls, orderID)
	if g.writeErr != nil {
		return nil, g.writeErr
	}
	return &stubTx{hash: "0xaccept", waitErr: g.waitErr}, nil
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

func TestBuyerOrdersNormalizesTotalsAndStatus(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{buyerOrders: []ledger.Order{
		{OrderID: 1, Buyer: "0xbuyer", TotalMinor: minor("3000000000000000000")},
		{OrderID: 2, Buyer: "0xbuyer", TotalMinor: minor("1500000000000000000"), IsFulfilled: true},
		{OrderID: 3, Buyer: "0xbuyer", TotalMinor: minor("500000000000000000"), IsFulfilled: true, IsAccepted: true},
	}}

	got, err := newTestService(t, gw).BuyerOrders(context.Background(), "0xbuyer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d orders", len(got))
	}

	if got[0].TotalDecimal != "3" || got[0].Status != StatusPending {
		t.Fatalf("order 1 = %+v", got[0])
	}
	if got[1].TotalDecimal != "1.5" || got[1].Status != StatusFulfilled {
		t.Fatalf("order 2 = %+v", got[1])
	}
	if got[2].TotalDecimal != "0.5" || got[2].Status != StatusAccepted {
		t.Fatalf("order 3 = %+v", got[2])
	}
}

func TestBuyerOrdersEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	got, err := newTestService(t, &stubGateway{}).BuyerOrders(context.Background(), "0xbuyer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
	if got == nil {
		t.Fatal("expected empty slice, not nil")
	}
}

func TestSellerOrdersPropagatesLedgerFailure(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{readErr: pkgerrors.New(pkgerrors.CodeLedgerDown, "provider unreachable")}

	_, err := newTestService(t, gw).SellerOrders(context.Background(), "0xseller")
	if !pkgerrors.Is(err, pkgerrors.CodeLedgerDown) {
		t.Fatalf("expected LEDGER_UNAVAILABLE, got %v", err)
	}
}

func TestFulfillWaitsForSettlement(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	if err := newTestService(t, gw).Fulfill(context.Background(), "0xseller", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.fulfillCalls) != 1 || gw.fulfillCalls[0] != 7 {
		t.Fatalf("fulfill calls = %v", gw.fulfillCalls)
	}
}

func TestAcceptSurfacesLedgerVerdict(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{waitErr: pkgerrors.New(pkgerrors.CodeLedgerReject, "order not fulfilled")}

	err := newTestService(t, gw).Accept(context.Background(), "0xbuyer", 9)
	if !pkgerrors.Is(err, pkgerrors.CodeLedgerReject) {
		t.Fatalf("expected LEDGER_REJECTED, got %v", err)
	}
	if len(gw.acceptCalls) != 1 || gw.acceptCalls[0] != 9 {
		t.Fatalf("accept calls = %v", gw.acceptCalls)
	}
}
