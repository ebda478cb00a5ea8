package checkout

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/scrowmarket/storefront-backend/internal/cart"
	"github.com/scrowmarket/storefront-backend/internal/ledger"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

// OutcomeStatus is the terminal state of one seller group's submission.
type OutcomeStatus string

const (
	OutcomeSubmitted OutcomeStatus = "submitted"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome reports how one seller group's submission ended. Failures carry the
// error so a partial success across sellers stays representable.
type Outcome struct {
	SellerID string
	Status   OutcomeStatus
	TxHash   string
	Err      error
}

// Service submits seller groups to the ledger, one transaction per seller.
type Service interface {
	Submit(ctx context.Context, account string, group SellerGroup) Outcome
	SubmitAll(ctx context.Context, account string, store *cart.Store) (map[string]Outcome, error)
}

type service struct {
	gateway  ledger.Gateway
	logg     *logger.Logger
	inflight inflightGuard
}

// NewService builds the submission service.
func NewService(gateway ledger.Gateway, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("ledger gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		gateway:  gateway,
		logg:     logg,
		inflight: inflightGuard{keys: make(map[string]struct{})},
	}, nil
}

// Submit places one seller group on the ledger. The group total is recomputed
// from the entries; a caller-supplied total is never trusted. While a
// submission for the same (account, seller) pair is pending, further attempts
// fail with SUBMISSION_IN_PROGRESS instead of broadcasting a duplicate.
// The caller clears the seller's cart lines only on a submitted outcome.
func (s *service) Submit(ctx context.Context, account string, group SellerGroup) Outcome {
	if err := s.validateGroup(group); err != nil {
		return Outcome{SellerID: group.SellerID, Status: OutcomeFailed, Err: err}
	}

	key := account + "|" + group.SellerID
	if !s.inflight.tryAcquire(key) {
		return Outcome{
			SellerID: group.SellerID,
			Status:   OutcomeFailed,
			Err: pkgerrors.New(pkgerrors.CodeSubmission, "submission already pending for this seller").
				WithDetails(map[string]any{"seller_id": group.SellerID}),
		}
	}
	defer s.inflight.release(key)

	recomputed, err := Partition(group.Entries)
	if err != nil {
		return Outcome{SellerID: group.SellerID, Status: OutcomeFailed, Err: err}
	}
	total := recomputed[group.SellerID].TotalMinor

	items := make([]ledger.PlaceOrderItem, 0, len(group.Entries))
	for _, entry := range group.Entries {
		items = append(items, ledger.PlaceOrderItem{
			ProductID: entry.Product.ID,
			Quantity:  entry.Quantity,
		})
	}

	ctx = s.logg.WithSeller(ctx, group.SellerID)
	s.logg.Info(ctx, "submitting seller group")

	tx, err := s.gateway.PlaceOrder(ctx, account, items, total)
	if err != nil {
		s.logg.Error(ctx, "order broadcast failed", err)
		return Outcome{SellerID: group.SellerID, Status: OutcomeFailed, Err: err}
	}

	if err := tx.Wait(ctx); err != nil {
		s.logg.Error(ctx, "order confirmation failed", err)
		return Outcome{SellerID: group.SellerID, Status: OutcomeFailed, TxHash: tx.Hash(), Err: err}
	}

	s.logg.Info(ctx, "seller group submitted")
	return Outcome{SellerID: group.SellerID, Status: OutcomeSubmitted, TxHash: tx.Hash()}
}

// SubmitAll partitions the cart and submits every seller group independently.
// Groups fail or succeed on their own; submitted groups are cleared from the
// cart, failed groups keep their lines for retry. The returned error joins
// the per-seller failures; the outcome map is always complete.
func (s *service) SubmitAll(ctx context.Context, account string, store *cart.Store) (map[string]Outcome, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store required")
	}

	groups, err := Partition(store.Snapshot())
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyOrder, "cart is empty")
	}

	sellers := make([]string, 0, len(groups))
	for sellerID := range groups {
		sellers = append(sellers, sellerID)
	}
	sort.Strings(sellers)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes = make(map[string]Outcome, len(groups))
		joined   error
	)

	for _, sellerID := range sellers {
		group := groups[sellerID]
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := s.Submit(ctx, account, group)
			if outcome.Status == OutcomeSubmitted {
				store.Clear(outcome.SellerID)
			}

			mu.Lock()
			defer mu.Unlock()
			outcomes[outcome.SellerID] = outcome
			if outcome.Err != nil {
				joined = multierr.Append(joined, fmt.Errorf("seller %s: %w", outcome.SellerID, outcome.Err))
			}
		}()
	}
	wg.Wait()

	return outcomes, joined
}

func (s *service) validateGroup(group SellerGroup) error {
	if group.SellerID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if len(group.Entries) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyOrder, "seller group has no items")
	}
	for _, entry := range group.Entries {
		if entry.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyOrder, "line quantity must be positive").
				WithDetails(map[string]any{"product_id": entry.Product.ID})
		}
		if entry.Product.SellerID != group.SellerID {
			return pkgerrors.New(pkgerrors.CodeValidation, "entry belongs to a different seller").
				WithDetails(map[string]any{"product_id": entry.Product.ID})
		}
	}
	return nil
}

// inflightGuard tracks pending (account, seller) submissions.
type inflightGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func (g *inflightGuard) tryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, pending := g.keys[key]; pending {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

func (g *inflightGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
}
