package ledger

import (
	"context"
	"math/big"
)

// PendingTx is a broadcast write awaiting settlement. Once the ledger has
// accepted the transaction there is no cancellation; Wait returns nil on
// confirmation, LEDGER_REJECTED when execution reverted, and
// LEDGER_UNAVAILABLE when the settlement status could not be determined.
type PendingTx interface {
	Hash() string
	Wait(ctx context.Context) error
}

// Gateway is the client's only door to the ledger. Monetary values cross it
// as minor-unit big integers, never floats; accounts are opaque address
// strings the client never parses.
type Gateway interface {
	GetAllProducts(ctx context.Context) ([]Product, error)
	GetOrdersByBuyer(ctx context.Context, account string) ([]Order, error)
	GetOrdersBySeller(ctx context.Context, account string) ([]Order, error)
	HasShippingAddress(ctx context.Context, account string) (bool, error)
	GetShippingAddress(ctx context.Context, account string) (string, error)

	SetShippingAddress(ctx context.Context, account, address string) (PendingTx, error)
	PlaceOrder(ctx context.Context, account string, items []PlaceOrderItem, valueMinor *big.Int) (PendingTx, error)
	FulfillOrder(ctx context.Context, account string, orderID int64) (PendingTx, error)
	AcceptOrder(ctx context.Context, account string, orderID int64) (PendingTx, error)
}
