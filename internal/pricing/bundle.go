package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

// PriceLookup resolves the unit price of a bundle item.
type PriceLookup interface {
	ItemPrice(item catalog.BundleItem) (decimal.Decimal, bool)
}

type BundlePrice struct {
	Original decimal.Decimal `json:"original_price"`
	Final    decimal.Decimal `json:"final_price"`
	Savings  decimal.Decimal `json:"savings"`
}

// PriceBundle sums the catalog prices of the bundle items and applies the
// bundle discount. Items missing from the catalog contribute nothing.
func PriceBundle(bundle catalog.Bundle, prices PriceLookup) BundlePrice {
	original := decimal.Zero
	for _, item := range bundle.Items {
		unit, ok := prices.ItemPrice(item)
		if !ok {
			continue
		}
		original = original.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	final := original
	switch {
	case bundle.FinalPrice != nil:
		final = *bundle.FinalPrice
	case bundle.DiscountType == enums.BundleDiscountTypePercentage:
		final = money.DiscountByPercent(original, bundle.DiscountValue)
	case bundle.DiscountType == enums.BundleDiscountTypeFixed:
		final = money.Clamp0(original.Sub(bundle.DiscountValue))
	}

	original = money.Round2(original)
	final = money.Round2(final)
	return BundlePrice{
		Original: original,
		Final:    final,
		Savings:  money.Clamp0(original.Sub(final)),
	}
}

// BundleSavings reports the bundle discount as an applied discount, or nil
// when the bundle saves nothing.
func BundleSavings(bundle catalog.Bundle, price BundlePrice) *AppliedDiscount {
	if !price.Savings.IsPositive() {
		return nil
	}
	affected := make([]string, 0, len(bundle.Items))
	for _, item := range bundle.Items {
		affected = append(affected, fmt.Sprintf("%s (×%d)", item.Name, item.Quantity))
	}
	return &AppliedDiscount{
		Source:        enums.DiscountSourceBundle,
		ID:            bundle.ID,
		Name:          bundle.Name,
		Description:   bundle.Description,
		Amount:        price.Savings,
		AffectedItems: affected,
	}
}
