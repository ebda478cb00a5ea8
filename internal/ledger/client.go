package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/scrowmarket/storefront-backend/pkg/config"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/jsonrpc"
	"github.com/scrowmarket/storefront-backend/pkg/metrics"
)

// Provider method namespace. The provider mirrors the contract surface
// one-to-one; ABI encoding is its concern, not this client's.
const (
	methodGetAllProducts     = "scrow_getAllProducts"
	methodGetOrdersByBuyer   = "scrow_getOrdersByBuyer"
	methodGetOrdersBySeller  = "scrow_getOrdersBySeller"
	methodHasShippingAddress = "scrow_hasShippingAddress"
	methodGetShippingAddress = "scrow_getShippingAddress"
	methodSetShippingAddress = "scrow_setShippingAddress"
	methodPlaceOrder         = "scrow_placeOrder"
	methodFulfillOrder       = "scrow_fulfillOrder"
	methodAcceptOrder        = "scrow_acceptOrder"
	methodGetTxReceipt       = "scrow_getTransactionReceipt"
)

type rpcCaller interface {
	Call(ctx context.Context, method string, params any, result any) error
}

// Client implements Gateway over a JSON-RPC provider.
type Client struct {
	rpc            rpcCaller
	contract       string
	metrics        *metrics.LedgerCallMetrics
	confirmTimeout time.Duration
	confirmPoll    time.Duration
}

// NewClient wires the gateway against the configured provider. The metrics
// argument may be nil.
func NewClient(cfg config.LedgerConfig, m *metrics.LedgerCallMetrics) (*Client, error) {
	rpcClient, err := jsonrpc.NewClient(cfg.ProviderURL, jsonrpc.WithTimeout(cfg.ReadTimeout))
	if err != nil {
		return nil, fmt.Errorf("ledger provider: %w", err)
	}
	return newClient(rpcClient, cfg, m)
}

func newClient(rpc rpcCaller, cfg config.LedgerConfig, m *metrics.LedgerCallMetrics) (*Client, error) {
	if rpc == nil {
		return nil, fmt.Errorf("rpc caller required")
	}
	contract := strings.TrimSpace(cfg.ContractAddr)
	if contract == "" {
		return nil, fmt.Errorf("contract address required")
	}
	return &Client{
		rpc:            rpc,
		contract:       contract,
		metrics:        m,
		confirmTimeout: cfg.ConfirmTimeout,
		confirmPoll:    cfg.ConfirmPoll,
	}, nil
}

// Wire shapes. Minor-unit values travel as decimal strings so no JSON number
// precision is lost on 256-bit values.

type wireProduct struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	ImageURL    string `json:"imageUrl"`
	Seller      string `json:"seller"`
}

type wireOrderItem struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
}

type wireOrder struct {
	OrderID     int64           `json:"orderId"`
	Buyer       string          `json:"buyer"`
	Items       []wireOrderItem `json:"items"`
	TotalPrice  string          `json:"totalPrice"`
	IsFulfilled bool            `json:"isFulfilled"`
	IsAccepted  bool            `json:"isAccepted"`
}

type writeRequest struct {
	Contract string `json:"contract"`
	From     string `json:"from"`
	Value    string `json:"value,omitempty"`
	Args     any    `json:"args,omitempty"`
}

type wireReceipt struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (c *Client) GetAllProducts(ctx context.Context) ([]Product, error) {
	var raw []wireProduct
	if err := c.read(ctx, methodGetAllProducts, []any{c.contract}, &raw); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(raw))
	for _, p := range raw {
		price, err := parseMinor(p.Price)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLedgerDown, err, "malformed product price")
		}
		products = append(products, Product{
			ID:          p.ID,
			Name:        p.Name,
			PriceMinor:  price,
			Description: p.Description,
			Available:   p.Available,
			ImageURL:    p.ImageURL,
			SellerID:    p.Seller,
		})
	}
	return products, nil
}

func (c *Client) GetOrdersByBuyer(ctx context.Context, account string) ([]Order, error) {
	return c.readOrders(ctx, methodGetOrdersByBuyer, account)
}

func (c *Client) GetOrdersBySeller(ctx context.Context, account string) ([]Order, error) {
	return c.readOrders(ctx, methodGetOrdersBySeller, account)
}

func (c *Client) readOrders(ctx context.Context, method, account string) ([]Order, error) {
	if err := requireAccount(account); err != nil {
		return nil, err
	}
	var raw []wireOrder
	if err := c.read(ctx, method, []any{c.contract, account}, &raw); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(raw))
	for _, o := range raw {
		total, err := parseMinor(o.TotalPrice)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLedgerDown, err, "malformed order total")
		}
		items := make([]OrderItem, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Name:      item.Name,
				ImageURL:  item.ImageURL,
			})
		}
		orders = append(orders, Order{
			OrderID:     o.OrderID,
			Buyer:       o.Buyer,
			Items:       items,
			TotalMinor:  total,
			IsFulfilled: o.IsFulfilled,
			IsAccepted:  o.IsAccepted,
		})
	}
	return orders, nil
}

func (c *Client) HasShippingAddress(ctx context.Context, account string) (bool, error) {
	if err := requireAccount(account); err != nil {
		return false, err
	}
	var bound bool
	if err := c.read(ctx, methodHasShippingAddress, []any{c.contract, account}, &bound); err != nil {
		return false, err
	}
	return bound, nil
}

func (c *Client) GetShippingAddress(ctx context.Context, account string) (string, error) {
	if err := requireAccount(account); err != nil {
		return "", err
	}
	var address string
	if err := c.read(ctx, methodGetShippingAddress, []any{c.contract, account}, &address); err != nil {
		return "", err
	}
	return address, nil
}

func (c *Client) SetShippingAddress(ctx context.Context, account, address string) (PendingTx, error) {
	if err := requireAccount(account); err != nil {
		return nil, err
	}
	return c.write(ctx, methodSetShippingAddress, writeRequest{
		Contract: c.contract,
		From:     account,
		Args:     []any{address},
	})
}

func (c *Client) PlaceOrder(ctx context.Context, account string, items []PlaceOrderItem, valueMinor *big.Int) (PendingTx, error) {
	if err := requireAccount(account); err != nil {
		return nil, err
	}
	if valueMinor == nil || valueMinor.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "order value must be a non-negative minor-unit amount")
	}
	return c.write(ctx, methodPlaceOrder, writeRequest{
		Contract: c.contract,
		From:     account,
		Value:    valueMinor.String(),
		Args:     []any{items},
	})
}

func (c *Client) FulfillOrder(ctx context.Context, account string, orderID int64) (PendingTx, error) {
	if err := requireAccount(account); err != nil {
		return nil, err
	}
	return c.write(ctx, methodFulfillOrder, writeRequest{
		Contract: c.contract,
		From:     account,
		Args:     []any{orderID},
	})
}

func (c *Client) AcceptOrder(ctx context.Context, account string, orderID int64) (PendingTx, error) {
	if err := requireAccount(account); err != nil {
		return nil, err
	}
	return c.write(ctx, methodAcceptOrder, writeRequest{
		Contract: c.contract,
		From:     account,
		Args:     []any{orderID},
	})
}

// read performs a view call. Any provider failure on a read, including a
// provider-side error object, means the read could not be completed.
func (c *Client) read(ctx context.Context, method string, params any, result any) error {
	start := time.Now()
	err := c.rpc.Call(ctx, method, params, result)
	c.metrics.ObserveDuration(method, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(method)
		if rpcErr := jsonrpc.AsRPCError(err); rpcErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeLedgerDown, rpcErr, "ledger read failed")
		}
		return err
	}
	c.metrics.IncSuccess(method)
	return nil
}

// write broadcasts a state-changing call. A provider-side error object means
// the ledger's entry point declined the transaction.
func (c *Client) write(ctx context.Context, method string, req writeRequest) (PendingTx, error) {
	start := time.Now()
	var txHash string
	err := c.rpc.Call(ctx, method, []any{req}, &txHash)
	c.metrics.ObserveDuration(method, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(method)
		if rpcErr := jsonrpc.AsRPCError(err); rpcErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLedgerReject, rpcErr, "ledger declined the transaction")
		}
		return nil, err
	}
	if strings.TrimSpace(txHash) == "" {
		c.metrics.IncFailure(method)
		return nil, pkgerrors.New(pkgerrors.CodeLedgerDown, "provider returned empty transaction hash")
	}
	c.metrics.IncSuccess(method)
	return &pendingTx{
		client: c,
		method: method,
		hash:   txHash,
	}, nil
}

func requireAccount(account string) error {
	if strings.TrimSpace(account) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account address is required")
	}
	return nil
}

func parseMinor(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("empty minor-unit value")
	}
	parsed, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || parsed.Sign() < 0 {
		return nil, fmt.Errorf("invalid minor-unit value %q", value)
	}
	return parsed, nil
}
