// Package downsell picks at most one retention offer for a trigger and
// resolves it against the catalog. An offer that cannot be honored is
// voided rather than partially resolved.
package downsell

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/paymentplan"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

// Context is the cart state a trigger fires with.
type Context struct {
	CartValue            decimal.Decimal
	LastDeclinedItemType enums.DeclinedItemType
	LastDeclinedItemID   *int
	// OriginalPrice is the price a scaled offer replaces: the declined
	// upsell's original price, else the current service price.
	OriginalPrice *decimal.Decimal
}

// Evaluate returns the single highest priority rule matching trigger,
// resolved into an offer, or nil. shown holds the rule ids already
// presented in the session and is only read.
func Evaluate(
	rules []catalog.DownsellRule,
	ctx Context,
	trigger enums.DownsellTrigger,
	plans []catalog.PaymentPlan,
	offers []catalog.ScaledOffer,
	shown map[int]struct{},
) *Suggestion {
	var eligible []catalog.DownsellRule
	for _, rule := range rules {
		if isEligible(rule, ctx, trigger, shown) {
			eligible = append(eligible, rule)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority > eligible[j].Priority
	})

	rule := eligible[0]
	resolution := resolve(rule.Offer, ctx, plans, offers)
	if resolution == nil {
		return nil
	}
	return &Suggestion{
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		Headline:    rule.Headline,
		Subheadline: rule.Subheadline,
		Trigger:     trigger,
		Resolution:  resolution,
	}
}

func isEligible(rule catalog.DownsellRule, ctx Context, trigger enums.DownsellTrigger, shown map[int]struct{}) bool {
	if !rule.Active || rule.Offer == nil {
		return false
	}
	if _, seen := shown[rule.ID]; rule.OnlyShowOnce && seen {
		return false
	}
	for _, cond := range rule.Conditions {
		if !matches(cond, ctx, trigger) {
			return false
		}
	}
	return true
}

func matches(cond catalog.DownsellCondition, ctx Context, trigger enums.DownsellTrigger) bool {
	if cond.TriggerType != trigger {
		return false
	}
	if cond.MinCartValue != nil && ctx.CartValue.LessThan(*cond.MinCartValue) {
		return false
	}
	if cond.DeclinedItemType != "" && ctx.LastDeclinedItemType != cond.DeclinedItemType {
		return false
	}
	if cond.DeclinedItemID != nil && (ctx.LastDeclinedItemID == nil || *ctx.LastDeclinedItemID != *cond.DeclinedItemID) {
		return false
	}
	return true
}

func resolve(offer catalog.DownsellOffer, ctx Context, plans []catalog.PaymentPlan, offers []catalog.ScaledOffer) Resolution {
	switch o := offer.(type) {
	case catalog.PaymentPlanOffer:
		plan, ok := findPlan(plans, o.PlanID)
		if !ok || !paymentplan.Eligible(plan, ctx.CartValue) {
			return nil
		}
		return PaymentPlanResolution{Plan: plan, Schedule: paymentplan.BuildSchedule(plan, ctx.CartValue)}
	case catalog.ScaledOfferOffer:
		scaled, ok := findOffer(offers, o.OfferID)
		if !ok || !scaled.Active {
			return nil
		}
		return ScaledResolution(scaled, ctx.OriginalPrice)
	case catalog.TrialCreditOffer:
		if !o.Amount.IsPositive() {
			return nil
		}
		return TrialCreditResolution{Amount: money.Round2(o.Amount), Description: o.Description}
	}
	return nil
}

// ScaledResolution prices a scaled offer against the price it replaces.
// Savings are reported only when original is known.
func ScaledResolution(offer catalog.ScaledOffer, original *decimal.Decimal) ScaledOfferResolution {
	res := ScaledOfferResolution{Offer: offer, NewPrice: money.Round2(offer.ReducedPrice)}
	if original != nil {
		base := money.Round2(*original)
		savings := money.Clamp0(base.Sub(res.NewPrice))
		res.OriginalPrice = &base
		res.Savings = &savings
	}
	return res
}

func findPlan(plans []catalog.PaymentPlan, id int) (catalog.PaymentPlan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.PaymentPlan{}, false
}

func findOffer(offers []catalog.ScaledOffer, id int) (catalog.ScaledOffer, bool) {
	for _, o := range offers {
		if o.ID == id {
			return o, true
		}
	}
	return catalog.ScaledOffer{}, false
}
