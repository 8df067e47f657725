// Package upsell matches cart state against upsell rules, ranks the
// survivors and prices the offered items. Evaluation has no side effects;
// callers record what was shown.
package upsell

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/pricing"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

// DefaultLimit caps how many suggestions a single evaluation returns.
const DefaultLimit = 2

// CartContext is the cart state rules are matched against.
type CartContext struct {
	Service   *catalog.Service
	Products  map[int]int // product id to quantity
	Bundles   []int
	CartValue decimal.Decimal
}

func (c CartContext) hasBundle(id int) bool {
	for _, b := range c.Bundles {
		if b == id {
			return true
		}
	}
	return false
}

type Suggestion struct {
	RuleID           int                   `json:"rule_id"`
	RuleName         string                `json:"rule_name"`
	Offer            catalog.UpsellOffer   `json:"-"`
	OfferType        enums.UpsellOfferType `json:"offer_type"`
	ItemType         enums.OfferedItemType `json:"item_type"`
	ItemID           int                   `json:"item_id"`
	ItemName         string                `json:"item_name"`
	Headline         string                `json:"headline"`
	Subheadline      string                `json:"subheadline,omitempty"`
	Badge            string                `json:"badge,omitempty"`
	OriginalPrice    decimal.Decimal       `json:"original_price"`
	FinalPrice       decimal.Decimal       `json:"final_price"`
	Savings          *decimal.Decimal      `json:"savings,omitempty"`
	IncrementalPrice *decimal.Decimal      `json:"incremental_price,omitempty"`
	Placement        enums.UpsellPlacement `json:"placement"`
}

type Engine struct {
	limit int
}

// NewEngine returns an engine that returns at most limit suggestions per
// evaluation. A non-positive limit means DefaultLimit.
func NewEngine(limit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Engine{limit: limit}
}

// Evaluate returns the highest priority rules eligible for cart at
// placement. displayCounts holds how often each rule was already shown in
// the session and is only read.
func (e *Engine) Evaluate(
	rules []catalog.UpsellRule,
	cart CartContext,
	placement enums.UpsellPlacement,
	cat *catalog.Catalog,
	displayCounts map[int]int,
) []Suggestion {
	if cat == nil {
		cat = &catalog.Catalog{}
	}

	var eligible []catalog.UpsellRule
	for _, rule := range rules {
		if isEligible(rule, cart, placement, cat, displayCounts) {
			eligible = append(eligible, rule)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority > eligible[j].Priority
	})
	if len(eligible) > e.limit {
		eligible = eligible[:e.limit]
	}

	suggestions := make([]Suggestion, 0, len(eligible))
	for _, rule := range eligible {
		suggestions = append(suggestions, suggest(rule, placement, cat))
	}
	return suggestions
}

func isEligible(
	rule catalog.UpsellRule,
	cart CartContext,
	placement enums.UpsellPlacement,
	cat *catalog.Catalog,
	displayCounts map[int]int,
) bool {
	if !rule.Active || rule.Offer == nil || !rule.HasPlacement(placement) {
		return false
	}
	shown, seen := displayCounts[rule.ID]
	if rule.MaxDisplaysPerSession > 0 && shown >= rule.MaxDisplaysPerSession {
		return false
	}
	if rule.OnlyShowOnce && seen {
		return false
	}
	if inCart(rule.Offer, cart) {
		return false
	}
	for _, cond := range rule.Conditions {
		if !matches(cond, cart, cat) {
			return false
		}
	}
	return true
}

// inCart reports whether the offered item is already satisfied by the cart.
// A quantity bump stays open until the product reaches two units.
func inCart(offer catalog.UpsellOffer, cart CartContext) bool {
	switch o := offer.(type) {
	case catalog.AddonOffer:
		_, ok := cart.Products[o.ProductID]
		return ok
	case catalog.QuantityBumpOffer:
		return cart.Products[o.ProductID] >= 2
	case catalog.BundleUpsellOffer:
		return cart.hasBundle(o.BundleID)
	case catalog.UpgradeOffer:
		return cart.Service != nil && cart.Service.ID == o.ServiceID
	}
	return false
}

func matches(cond catalog.UpsellCondition, cart CartContext, cat *catalog.Catalog) bool {
	switch cond.TriggerType {
	case enums.UpsellTriggerTypeServiceSelected:
		if cart.Service == nil {
			return false
		}
		if cond.ServiceID != nil && cart.Service.ID != *cond.ServiceID {
			return false
		}
		return cond.ServiceName == "" || cart.Service.Name == cond.ServiceName
	case enums.UpsellTriggerTypeProductSelected:
		if cond.ProductID != nil {
			_, ok := cart.Products[*cond.ProductID]
			return ok
		}
		return len(cart.Products) > 0
	case enums.UpsellTriggerTypeCategorySelected:
		if cond.ProductCategory == "" {
			return false
		}
		for id := range cart.Products {
			if p, ok := cat.Product(id); ok && p.Category == cond.ProductCategory {
				return true
			}
		}
		return false
	case enums.UpsellTriggerTypeBundleSelected:
		if cond.BundleID != nil {
			return cart.hasBundle(*cond.BundleID)
		}
		return len(cart.Bundles) > 0
	case enums.UpsellTriggerTypeCartValue:
		return cond.MinCartValue == nil || !cart.CartValue.LessThan(*cond.MinCartValue)
	}
	return false
}

func suggest(rule catalog.UpsellRule, placement enums.UpsellPlacement, cat *catalog.Catalog) Suggestion {
	original, final := price(rule, cat)
	s := Suggestion{
		RuleID:           rule.ID,
		RuleName:         rule.Name,
		Offer:            rule.Offer,
		OfferType:        rule.Offer.OfferType(),
		ItemType:         rule.Offer.ItemType(),
		ItemID:           rule.Offer.ItemID(),
		ItemName:         rule.Offer.ItemName(),
		Headline:         rule.Headline,
		Subheadline:      rule.Subheadline,
		Badge:            rule.Badge,
		OriginalPrice:    original,
		FinalPrice:       final,
		IncrementalPrice: rule.IncrementalPrice,
		Placement:        placement,
	}
	if original.GreaterThan(final) {
		savings := original.Sub(final)
		s.Savings = &savings
	}
	return s
}

// price resolves the base price from the rule override or the catalog, then
// applies the rule's own discount.
func price(rule catalog.UpsellRule, cat *catalog.Catalog) (decimal.Decimal, decimal.Decimal) {
	var original, final decimal.Decimal
	if rule.OriginalPrice != nil && !rule.OriginalPrice.IsZero() {
		original = *rule.OriginalPrice
		final = original
	} else {
		original, final = catalogPrice(rule.Offer, cat)
	}

	switch {
	case rule.DiscountedPrice != nil:
		final = *rule.DiscountedPrice
	case rule.DiscountPercentage != nil && rule.DiscountPercentage.IsPositive():
		final = money.DiscountByPercent(original, *rule.DiscountPercentage)
	}
	return money.Round2(original), money.Round2(final)
}

func catalogPrice(offer catalog.UpsellOffer, cat *catalog.Catalog) (decimal.Decimal, decimal.Decimal) {
	switch o := offer.(type) {
	case catalog.AddonOffer:
		if p, ok := cat.Product(o.ProductID); ok {
			return p.Price, p.Price
		}
	case catalog.QuantityBumpOffer:
		if p, ok := cat.Product(o.ProductID); ok {
			return p.Price, p.Price
		}
	case catalog.BundleUpsellOffer:
		if b, ok := cat.Bundle(o.BundleID); ok {
			bp := pricing.PriceBundle(b, cat)
			return bp.Original, bp.Final
		}
	case catalog.UpgradeOffer:
		if s, ok := cat.Service(o.ServiceID); ok {
			return s.Price, s.Price
		}
	}
	return decimal.Zero, decimal.Zero
}
