package quotes

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/downsell"
	"github.com/angelmondragon/clinic-checkout/internal/pricing"
	"github.com/angelmondragon/clinic-checkout/internal/upsell"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

type DiscountLine struct {
	Type     enums.ItemKind  `json:"type" validate:"enum"`
	ID       int             `json:"id" validate:"gte=0"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Category string          `json:"category"`
}

type DiscountQuoteRequest struct {
	Lines []DiscountLine `json:"lines" validate:"min=1,dive"`
}

type ScheduleQuoteRequest struct {
	PlanID int             `json:"plan_id" validate:"gt=0"`
	Total  decimal.Decimal `json:"total" validate:"gte=0"`
}

type UpsellQuoteRequest struct {
	Placement     enums.UpsellPlacement `json:"placement" validate:"enum"`
	ServiceID     *int                  `json:"service_id,omitempty" validate:"omitempty,gt=0"`
	Products      map[int]int           `json:"products" validate:"dive,gt=0"`
	Bundles       []int                 `json:"bundles" validate:"dive,gt=0"`
	DisplayCounts map[int]int           `json:"display_counts" validate:"dive,gte=0"`
}

type DownsellQuoteRequest struct {
	Trigger          enums.DownsellTrigger  `json:"trigger" validate:"enum"`
	CartValue        decimal.Decimal        `json:"cart_value" validate:"gte=0"`
	DeclinedItemType enums.DeclinedItemType `json:"declined_item_type,omitempty" validate:"omitempty,enum"`
	DeclinedItemID   *int                   `json:"declined_item_id,omitempty"`
	OriginalPrice    *decimal.Decimal       `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	ShownRuleIDs     []int                  `json:"shown_rule_ids"`
}

type BundleQuote struct {
	BundleID int                      `json:"bundle_id"`
	Name     string                   `json:"name"`
	Price    pricing.BundlePrice      `json:"price"`
	Discount *pricing.AppliedDiscount `json:"discount,omitempty"`
}

type DiscountQuote struct {
	Discounts     []pricing.AppliedDiscount `json:"discounts"`
	TotalDiscount decimal.Decimal           `json:"total_discount"`
}

type UpsellQuote struct {
	CartValue   decimal.Decimal     `json:"cart_value"`
	Suggestions []upsell.Suggestion `json:"suggestions"`
}

type DownsellQuote struct {
	Suggestion *downsell.Suggestion `json:"suggestion"`
}

func toCartLines(lines []DiscountLine) []pricing.CartLine {
	out := make([]pricing.CartLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, pricing.CartLine{
			Kind:     line.Type,
			ID:       line.ID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Category: line.Category,
		})
	}
	return out
}

func toDownsellContext(payload DownsellQuoteRequest) downsell.Context {
	return downsell.Context{
		CartValue:            payload.CartValue,
		LastDeclinedItemType: payload.DeclinedItemType,
		LastDeclinedItemID:   payload.DeclinedItemID,
		OriginalPrice:        payload.OriginalPrice,
	}
}

func shownSet(ids []int) map[int]struct{} {
	shown := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		shown[id] = struct{}{}
	}
	return shown
}
