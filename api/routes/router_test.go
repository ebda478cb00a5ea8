package routes

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scrowmarket/storefront-backend/internal/cart"
	"github.com/scrowmarket/storefront-backend/internal/catalog"
	"github.com/scrowmarket/storefront-backend/internal/checkout"
	"github.com/scrowmarket/storefront-backend/internal/ledger"
	"github.com/scrowmarket/storefront-backend/internal/orders"
	"github.com/scrowmarket/storefront-backend/internal/shipping"
	"github.com/scrowmarket/storefront-backend/pkg/config"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
	"github.com/scrowmarket/storefront-backend/pkg/types"
)

type stubTx struct{}

func (stubTx) Hash() string                   { return "0xtx" }
func (stubTx) Wait(ctx context.Context) error { return nil }

type stubGateway struct {
	products    []ledger.Product
	buyerOrders []ledger.Order
	address     string
	placeCalls  int
}

func (g *stubGateway) GetAllProducts(ctx context.Context) ([]ledger.Product, error) {
	return g.products, nil
}

func (g *stubGateway) GetOrdersByBuyer(ctx context.Context, account string) ([]ledger.Order, error) {
	return g.buyerOrders, nil
}

func (g *stubGateway) GetOrdersBySeller(ctx context.Context, account string) ([]ledger.Order, error) {
	return nil, nil
}

func (g *stubGateway) HasShippingAddress(ctx context.Context, account string) (bool, error) {
	return g.address != "", nil
}

func (g *stubGateway) GetShippingAddress(ctx context.Context, account string) (string, error) {
	return g.address, nil
}

func (g *stubGateway) SetShippingAddress(ctx context.Context, account, address string) (ledger.PendingTx, error) {
	g.address = address
	return stubTx{}, nil
}

func (g *stubGateway) PlaceOrder(ctx context.Context, account string, items []ledger.PlaceOrderItem, valueMinor *big.Int) (ledger.PendingTx, error) {
	g.placeCalls++
	return stubTx{}, nil
}

func (g *stubGateway) FulfillOrder(ctx context.Context, account string, orderID int64) (ledger.PendingTx, error) {
	return stubTx{}, nil
}

func (g *stubGateway) AcceptOrder(ctx context.Context, account string, orderID int64) (ledger.PendingTx, error) {
	return stubTx{}, nil
}

func newTestRouter(t *testing.T, gw ledger.Gateway) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	cfg := &config.Config{}
	cfg.App.Env = "dev"

	catalogService, err := catalog.NewService(gw, logg)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	checkoutService, err := checkout.NewService(gw, logg)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	ordersService, err := orders.NewService(gw, logg)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	shippingService, err := shipping.NewService(gw, logg)
	if err != nil {
		t.Fatalf("shipping service: %v", err)
	}

	return NewRouter(cfg, logg, nil, nil, cart.NewRegistry(), catalogService, checkoutService, ordersService, shippingService)
}

func minor(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad fixture: " + s)
	}
	return v
}

func doRequest(router http.Handler, method, target, account, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if account != "" {
		req.Header.Set("X-Account-Address", account)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	resp := doRequest(router, http.MethodGet, "/healthz", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Scrow-Env"); env != "dev" {
		t.Fatalf("unexpected env header %q", env)
	}
}

func TestRouterProductsIsPublic(t *testing.T) {
	gw := &stubGateway{products: []ledger.Product{
		{ID: 1, Name: "beans", PriceMinor: minor("1500000000000000000"), Available: true, SellerID: "S1"},
	}}
	router := newTestRouter(t, gw)

	resp := doRequest(router, http.MethodGet, "/api/v1/products", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	listed := envelope.Data.([]any)
	if len(listed) != 1 {
		t.Fatalf("expected one product, got %v", envelope.Data)
	}
	if price := listed[0].(map[string]any)["price"]; price != "1.5" {
		t.Fatalf("price = %v", price)
	}
}

func TestRouterRequiresAccountHeader(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	resp := doRequest(router, http.MethodGet, "/api/v1/cart/", "", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestRouterCartCheckoutFlow(t *testing.T) {
	gw := &stubGateway{products: []ledger.Product{
		{ID: 1, Name: "beans", PriceMinor: minor("1500000000000000000"), Available: true, SellerID: "S1"},
	}}
	router := newTestRouter(t, gw)

	resp := doRequest(router, http.MethodPost, "/api/v1/cart/items", "0xbuyer", `{"productId":1,"quantity":2}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("add item: expected 200 got %d: %s", resp.Code, resp.Body)
	}

	resp = doRequest(router, http.MethodPost, "/api/v1/checkout", "0xbuyer", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("checkout: expected 200 got %d: %s", resp.Code, resp.Body)
	}
	if gw.placeCalls != 1 {
		t.Fatalf("place calls = %d", gw.placeCalls)
	}

	// Submitted lines are cleared, so a second checkout finds nothing.
	resp = doRequest(router, http.MethodPost, "/api/v1/checkout", "0xbuyer", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("empty checkout: expected 400 got %d", resp.Code)
	}
}

func TestRouterShippingAddressRoundTrip(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	resp := doRequest(router, http.MethodGet, "/api/v1/shipping-address/", "0xbuyer", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200 got %d", resp.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bound := envelope.Data.(map[string]any)["bound"]; bound != false {
		t.Fatalf("expected unbound account, got %v", bound)
	}

	resp = doRequest(router, http.MethodPut, "/api/v1/shipping-address/", "0xbuyer", `{"address":"12 Harbor Lane"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("bind: expected 200 got %d: %s", resp.Code, resp.Body)
	}

	resp = doRequest(router, http.MethodGet, "/api/v1/shipping-address/", "0xbuyer", "")
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["bound"] != true || data["address"] != "12 Harbor Lane" {
		t.Fatalf("unexpected view %v", data)
	}
}

func TestRouterBuyerOrders(t *testing.T) {
	gw := &stubGateway{buyerOrders: []ledger.Order{
		{OrderID: 1, Buyer: "0xbuyer", TotalMinor: minor("3000000000000000000"), IsFulfilled: true},
	}}
	router := newTestRouter(t, gw)

	resp := doRequest(router, http.MethodGet, "/api/v1/orders/buyer", "0xbuyer", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	listed := envelope.Data.([]any)
	if len(listed) != 1 {
		t.Fatalf("expected one order, got %v", envelope.Data)
	}
	order := listed[0].(map[string]any)
	if order["totalPrice"] != "3" || order["status"] != "fulfilled" {
		t.Fatalf("unexpected order %v", order)
	}
}
