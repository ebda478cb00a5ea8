// Package cart holds the in-memory draft of a buyer's intent. The cart is the
// source of truth until a seller group is submitted to the ledger; nothing
// here is persisted.
package cart

import (
	"strings"
	"sync"

	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
)

// ProductSnapshot freezes the catalog fields a line item displays. Price and
// name are captured at add time; a later catalog refresh does not rewrite
// existing lines.
type ProductSnapshot struct {
	ID           int64
	Name         string
	PriceDecimal string
	Description  string
	ImageURL     string
	SellerID     string
}

// Entry is one cart line. Unique per product id; quantity is always positive.
type Entry struct {
	Product  ProductSnapshot
	Quantity int
}

// Store is a single account's cart. Mutations are synchronous; entries keep
// their insertion order.
type Store struct {
	mu      sync.Mutex
	entries []Entry
}

func NewStore() *Store {
	return &Store{}
}

// Add appends a new line for the product or increments the existing one.
func (s *Store) Add(product ProductSnapshot, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if strings.TrimSpace(product.SellerID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product seller is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Product.ID == product.ID {
			s.entries[i].Quantity += quantity
			return nil
		}
	}
	s.entries = append(s.entries, Entry{Product: product, Quantity: quantity})
	return nil
}

// Increment raises the quantity of an existing line by one. Missing lines are
// a no-op.
func (s *Store) Increment(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Product.ID == productID {
			s.entries[i].Quantity++
			return
		}
	}
}

// Decrement lowers the quantity of an existing line by one, removing the line
// when it reaches zero. Missing lines are a no-op.
func (s *Store) Decrement(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Product.ID != productID {
			continue
		}
		s.entries[i].Quantity--
		if s.entries[i].Quantity < 1 {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
		}
		return
	}
}

// Clear removes every line belonging to the given seller. Lines for other
// sellers keep their relative order.
func (s *Store) Clear(sellerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.Product.SellerID != sellerID {
			kept = append(kept, entry)
		}
	}
	s.entries = kept
}

// Snapshot returns a copy of the cart lines in insertion order.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
