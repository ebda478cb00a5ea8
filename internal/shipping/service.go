package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/scrowmarket/storefront-backend/internal/ledger"
	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
	"github.com/scrowmarket/storefront-backend/pkg/logger"
)

// Service manages the shipping address bound to an account on the ledger.
// The address is an opaque string; the ledger holds the authoritative copy
// and Get always re-reads it.
type Service interface {
	IsBound(ctx context.Context, account string) (bool, error)
	Get(ctx context.Context, account string) (string, error)
	Set(ctx context.Context, account, address string) error
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

func (s *service) IsBound(ctx context.Context, account string) (bool, error) {
	return s.gateway.HasShippingAddress(ctx, account)
}

func (s *service) Get(ctx context.Context, account string) (string, error) {
	return s.gateway.GetShippingAddress(ctx, account)
}

// Set binds an address to the account. An empty address is rejected locally
// before anything is broadcast.
func (s *service) Set(ctx context.Context, account, address string) error {
	if strings.TrimSpace(address) == "" {
		return pkgerrors.New(pkgerrors.CodeEmptyAddress, "shipping address cannot be empty")
	}

	ctx = s.logg.WithAccount(ctx, account)

	tx, err := s.gateway.SetShippingAddress(ctx, account, address)
	if err != nil {
		s.logg.Error(ctx, "shipping address broadcast failed", err)
		return err
	}
	if err := tx.Wait(ctx); err != nil {
		s.logg.Error(ctx, "shipping address confirmation failed", err)
		return err
	}

	s.logg.Info(ctx, "shipping address bound")
	return nil
}
