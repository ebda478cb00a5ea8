// Package minorunits converts between human decimal prices and the ledger's
// fixed-point integer representation. The ledger stores every monetary value
// as an unsigned 256-bit integer scaled by 10^18, so all arithmetic here is
// exact integer arithmetic; nothing on this path touches a float.
package minorunits

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/scrowmarket/storefront-backend/pkg/errors"
)

// LedgerDecimals is the ledger's fixed-point scale.
const LedgerDecimals = 18

// maxLedgerUint is 2^256 - 1, the widest value the ledger can hold.
var maxLedgerUint = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ToMinorUnits parses a non-negative decimal string and returns the exact
// scaled integer. It fails with INVALID_AMOUNT when the string is not a valid
// decimal, is negative, or carries more than `decimals` fractional digits.
func ToMinorUnits(amount string, decimals int32) (*big.Int, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "amount is required")
	}

	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidAmount, err, "parse amount")
	}
	if parsed.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "amount cannot be negative")
	}

	scaled := parsed.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "amount has too many fractional digits").
			WithDetails(map[string]any{"amount": trimmed, "decimals": decimals})
	}

	units := scaled.BigInt()
	if units.Cmp(maxLedgerUint) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOverflow, "amount exceeds ledger width")
	}
	return units, nil
}

// ToDecimalString is the exact inverse of ToMinorUnits. The result is the
// canonical form: no trailing fractional zeros, no leading zeros.
func ToDecimalString(units *big.Int, decimals int32) (string, error) {
	if units == nil {
		return "", pkgerrors.New(pkgerrors.CodeInvalidAmount, "minor units value is required")
	}
	if units.Sign() < 0 {
		return "", pkgerrors.New(pkgerrors.CodeInvalidAmount, "minor units cannot be negative")
	}
	return decimal.NewFromBigInt(units, -decimals).String(), nil
}

// MultiplyByQuantity returns units*quantity, failing with OVERFLOW when the
// product no longer fits the ledger's 256-bit width.
func MultiplyByQuantity(units *big.Int, quantity int) (*big.Int, error) {
	if units == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "minor units value is required")
	}
	if units.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "minor units cannot be negative")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "quantity must be positive")
	}

	product := new(big.Int).Mul(units, big.NewInt(int64(quantity)))
	if product.Cmp(maxLedgerUint) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOverflow, "line total exceeds ledger width").
			WithDetails(map[string]any{"quantity": quantity})
	}
	return product, nil
}

// Add sums two minor-unit values with the same width check as the ledger.
func Add(a, b *big.Int) (*big.Int, error) {
	if a == nil || b == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "minor units value is required")
	}
	sum := new(big.Int).Add(a, b)
	if sum.Cmp(maxLedgerUint) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOverflow, "sum exceeds ledger width")
	}
	return sum, nil
}
