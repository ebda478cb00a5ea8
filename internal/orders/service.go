package orders

import (
	"context"
	"fmt"

	"github.com/scrowmarket/storefront-backend/internal/ledger"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
	"github.com/scrowmarket/storefront-backend/pkg/minorunits"
)

// Status is the lifecycle stage derived from the ledger's fulfillment flags.
// An order starts pending, the seller fulfills it, the buyer accepts it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusAccepted  Status = "accepted"
)

// Order is the client-facing view of a ledger order. The total is rendered
// as a decimal string; minor units never leave this package.
type Order struct {
	ID           int64              `json:"id"`
	Buyer        string             `json:"buyer"`
	Items        []ledger.OrderItem `json:"items"`
	TotalDecimal string             `json:"totalPrice"`
	Status       Status             `json:"status"`
}

// Service reads and advances orders against the ledger. The ledger is the
// only source of order state; nothing is cached between calls.
type Service interface {
	BuyerOrders(ctx context.Context, account string) ([]Order, error)
	SellerOrders(ctx context.Context, account string) ([]Order, error)
	Fulfill(ctx context.Context, account string, orderID int64) error
	Accept(ctx context.Context, account string, orderID int64) error
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

func (s *service) BuyerOrders(ctx context.Context, account string) ([]Order, error) {
	raw, err := s.gateway.GetOrdersByBuyer(ctx, account)
	if err != nil {
		return nil, err
	}
	return normalize(raw)
}

func (s *service) SellerOrders(ctx context.Context, account string) ([]Order, error) {
	raw, err := s.gateway.GetOrdersBySeller(ctx, account)
	if err != nil {
		return nil, err
	}
	return normalize(raw)
}

// Fulfill marks an order shipped. Only the written fact on the ledger counts;
// the call returns once the transaction settles.
func (s *service) Fulfill(ctx context.Context, account string, orderID int64) error {
	ctx = s.logg.WithOrderID(ctx, orderID)

	tx, err := s.gateway.FulfillOrder(ctx, account, orderID)
	if err != nil {
		s.logg.Error(ctx, "fulfill broadcast failed", err)
		return err
	}
	if err := tx.Wait(ctx); err != nil {
		s.logg.Error(ctx, "fulfill confirmation failed", err)
		return err
	}

	s.logg.Info(ctx, "order fulfilled")
	return nil
}

// Accept records the buyer's acceptance of a fulfilled order.
func (s *service) Accept(ctx context.Context, account string, orderID int64) error {
	ctx = s.logg.WithOrderID(ctx, orderID)

	tx, err := s.gateway.AcceptOrder(ctx, account, orderID)
	if err != nil {
		s.logg.Error(ctx, "accept broadcast failed", err)
		return err
	}
	if err := tx.Wait(ctx); err != nil {
		s.logg.Error(ctx, "accept confirmation failed", err)
		return err
	}

	s.logg.Info(ctx, "order accepted")
	return nil
}

func normalize(raw []ledger.Order) ([]Order, error) {
	out := make([]Order, 0, len(raw))
	for _, o := range raw {
		total, err := minorunits.ToDecimalString(o.TotalMinor, minorunits.LedgerDecimals)
		if err != nil {
			return nil, err
		}
		out = append(out, Order{
			ID:           o.OrderID,
			Buyer:        o.Buyer,
			Items:        o.Items,
			TotalDecimal: total,
			Status:       statusOf(o),
		})
	}
	return out, nil
}

func statusOf(o ledger.Order) Status {
	switch {
	case o.IsFulfilled && o.IsAccepted:
		return StatusAccepted
	case o.IsFulfilled:
		return StatusFulfilled
	default:
		return StatusPending
	}
}
