package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/downsell"
	"github.com/angelmondragon/clinic-checkout/internal/paymentplan"
	"github.com/angelmondragon/clinic-checkout/internal/pricing"
	"github.com/angelmondragon/clinic-checkout/internal/upsell"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

// ProductLine is a selected product priced from the catalog.
type ProductLine struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SelectedBundle is a bundle in the cart. Price reflects an accepted scaled
// offer when one replaced the bundle.
type SelectedBundle struct {
	ID    int                 `json:"id"`
	Name  string              `json:"name"`
	Price pricing.BundlePrice `json:"price"`
}

type SelectedPaymentPlan struct {
	PlanID   int                  `json:"plan_id"`
	PlanName string               `json:"plan_name"`
	Schedule paymentplan.Schedule `json:"schedule"`
}

// AcceptedScaledOffer records the substitution of a service or bundle by a
// scaled offer. OriginalPrice is the price it replaced.
type AcceptedScaledOffer struct {
	ScaledOfferID    int                  `json:"scaled_offer_id"`
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	OriginalItemType enums.ScaledItemType `json:"original_item_type"`
	OriginalItemID   int                  `json:"original_item_id"`
	OriginalItemName string               `json:"original_item_name"`
	RemovedFeatures  []string             `json:"removed_features,omitempty"`
	OriginalPrice    decimal.Decimal      `json:"original_price"`
	NewPrice         decimal.Decimal      `json:"new_price"`
}

// Savings is the amount the substitution takes off, never negative.
func (a AcceptedScaledOffer) Savings() decimal.Decimal {
	if a.OriginalPrice.LessThan(a.NewPrice) {
		return decimal.Zero
	}
	return a.OriginalPrice.Sub(a.NewPrice)
}

type UpsellTracking struct {
	Shown    []upsell.Suggestion `json:"shown"`
	Accepted []upsell.Suggestion `json:"accepted"`
	Declined []upsell.Suggestion `json:"declined"`
}

type DownsellTracking struct {
	Shown    []downsell.Suggestion `json:"shown"`
	Accepted []downsell.Suggestion `json:"accepted"`
	Declined []downsell.Suggestion `json:"declined"`
}

func (t DownsellTracking) empty() bool {
	return len(t.Shown) == 0 && len(t.Accepted) == 0 && len(t.Declined) == 0
}
