package checkout

import (
	"math/big"

	"github.com/scrowmarket/storefront-backend/internal/cart"
	"github.com/scrowmarket/storefront-backend/pkg/minorunits"
)

// SellerGroup is the subset of a cart belonging to one seller, the unit of
// order submission. Groups are derived on every call and never outlive the
// cart snapshot they came from.
type SellerGroup struct {
	SellerID   string
	Entries    []cart.Entry
	TotalMinor *big.Int
}

// Partition splits cart lines into per-seller groups. Lines keep their cart
// order inside each group; totals are exact integer sums of
// quantity * minorUnits(price), never a re-parse of decimal subtotals.
// An empty cart yields an empty map.
func Partition(entries []cart.Entry) (map[string]SellerGroup, error) {
	groups := make(map[string]SellerGroup, len(entries))
	for _, entry := range entries {
		unitMinor, err := minorunits.ToMinorUnits(entry.Product.PriceDecimal, minorunits.LedgerDecimals)
		if err != nil {
			return nil, err
		}
		lineMinor, err := minorunits.MultiplyByQuantity(unitMinor, entry.Quantity)
		if err != nil {
			return nil, err
		}

		group, ok := groups[entry.Product.SellerID]
		if !ok {
			group = SellerGroup{
				SellerID:   entry.Product.SellerID,
				TotalMinor: big.NewInt(0),
			}
		}
		total, err := minorunits.Add(group.TotalMinor, lineMinor)
		if err != nil {
			return nil, err
		}
		group.TotalMinor = total
		group.Entries = append(group.Entries, entry)
		groups[entry.Product.SellerID] = group
	}
	return groups, nil
}
