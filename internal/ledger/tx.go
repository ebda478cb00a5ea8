package ledger

import (
	"context"
	"time"

	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/jsonrpc"
)

const (
	receiptStatusPending   = "pending"
	receiptStatusConfirmed = "confirmed"
	receiptStatusRejected  = "rejected"
)

// pendingTx polls the provider for a receipt until the transaction settles.
type pendingTx struct {
	client *Client
	method string
	hash   string
}

func (t *pendingTx) Hash() string {
	return t.hash
}

func (t *pendingTx) Wait(ctx context.Context) error {
	timeout := t.client.confirmTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	poll := t.client.confirmPoll
	if poll <= 0 {
		poll = 2 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		receipt, err := t.fetchReceipt(ctx)
		if err != nil {
			return err
		}
		switch receipt.Status {
		case receiptStatusConfirmed:
			return nil
		case receiptStatusRejected:
			reason := receipt.Reason
			if reason == "" {
				reason = "execution reverted"
			}
			return pkgerrors.New(pkgerrors.CodeLedgerReject, reason).
				WithDetails(map[string]any{"tx_hash": t.hash, "method": t.method})
		}

		select {
		case <-ctx.Done():
			return pkgerrors.Wrap(pkgerrors.CodeLedgerDown, ctx.Err(), "confirmation timed out").
				WithDetails(map[string]any{"tx_hash": t.hash})
		case <-ticker.C:
		}
	}
}

func (t *pendingTx) fetchReceipt(ctx context.Context) (*wireReceipt, error) {
	var receipt wireReceipt
	err := t.client.rpc.Call(ctx, methodGetTxReceipt, []any{t.hash}, &receipt)
	if err != nil {
		if rpcErr := jsonrpc.AsRPCError(err); rpcErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLedgerDown, rpcErr, "fetch receipt")
		}
		return nil, err
	}
	if receipt.Status == "" {
		receipt.Status = receiptStatusPending
	}
	return &receipt, nil
}
