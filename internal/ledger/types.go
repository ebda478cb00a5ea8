package ledger

import "math/big"

// Product is a catalog row as the ledger returns it. Products are immutable
// within a session; a refresh replaces the whole slice, nothing is patched.
type Product struct {
	ID          int64
	Name        string
	PriceMinor  *big.Int
	Description string
	Available   bool
	ImageURL    string
	SellerID    string
}

// OrderItem is one line of a ledger order. Name and ImageURL are the display
// fields the final contract schema embeds alongside the product reference.
type OrderItem struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Order is the raw order record read back from the ledger. Only the ledger
// assigns OrderID.
type Order struct {
	OrderID     int64
	Buyer       string
	Items       []OrderItem
	TotalMinor  *big.Int
	IsFulfilled bool
	IsAccepted  bool
}

// PlaceOrderItem is the minimal item reference a placeOrder write carries.
type PlaceOrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
