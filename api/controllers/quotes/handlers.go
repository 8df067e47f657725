// Package quotes exposes the pure pricing and offer engines over the loaded
// catalog. No checkout state is kept between requests.
package quotes

import (
	"net/http"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/api/responses"
	"github.com/angelmondragon/clinic-checkout/api/validators"
	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/downsell"
	"github.com/angelmondragon/clinic-checkout/internal/paymentplan"
	"github.com/angelmondragon/clinic-checkout/internal/pricing"
	"github.com/angelmondragon/clinic-checkout/internal/upsell"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
	"github.com/angelmondragon/clinic-checkout/pkg/logger"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

// QuoteBundle prices a catalog bundle.
func QuoteBundle(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bundleID, err := validators.ParseIDParam(r, "bundleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bundle, ok := cat.Bundle(bundleID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "bundle not found"))
			return
		}

		price := pricing.PriceBundle(bundle, cat)
		responses.WriteSuccess(w, BundleQuote{
			BundleID: bundle.ID,
			Name:     bundle.Name,
			Price:    price,
			Discount: pricing.BundleSavings(bundle, price),
		})
	}
}

// QuoteDiscounts applies the catalog's buy X get Y rules to the posted lines.
func QuoteDiscounts(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload DiscountQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discounts := pricing.CalculateBXGYDiscounts(toCartLines(payload.Lines), cat.BXGYRules)
		if discounts == nil {
			discounts = []pricing.AppliedDiscount{}
		}
		responses.WriteSuccess(w, DiscountQuote{
			Discounts:     discounts,
			TotalDiscount: pricing.TotalDiscount(discounts),
		})
	}
}

// QuotePaymentSchedule builds the installment schedule of a plan for a total.
func QuotePaymentSchedule(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ScheduleQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, ok := cat.PaymentPlan(payload.PlanID)
		if !ok || !plan.Active {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "payment plan not found"))
			return
		}
		if !paymentplan.Eligible(plan, payload.Total) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "total below plan minimum").
				WithDetails(map[string]any{"min_cart_value": plan.MinCartValue.StringFixed(2)}))
			return
		}

		responses.WriteSuccess(w, paymentplan.BuildSchedule(plan, payload.Total))
	}
}

// QuoteUpsells evaluates the upsell rules for a described cart.
func QuoteUpsells(cat *catalog.Catalog, engine *upsell.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload UpsellQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := cartContext(cat, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		displayCounts := payload.DisplayCounts
		if displayCounts == nil {
			displayCounts = map[int]int{}
		}
		suggestions := engine.Evaluate(cat.UpsellRules, cart, payload.Placement, cat, displayCounts)
		if suggestions == nil {
			suggestions = []upsell.Suggestion{}
		}
		responses.WriteSuccess(w, UpsellQuote{CartValue: cart.CartValue, Suggestions: suggestions})
	}
}

// QuoteDownsells returns the single downsell offer for a trigger, or null.
func QuoteDownsells(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload DownsellQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sug := downsell.Evaluate(
			cat.DownsellRules,
			toDownsellContext(payload),
			payload.Trigger,
			cat.PaymentPlans,
			cat.ScaledOffers,
			shownSet(payload.ShownRuleIDs),
		)
		responses.WriteSuccess(w, DownsellQuote{Suggestion: sug})
	}
}

// cartContext resolves the posted selection against the catalog and prices
// it the way a checkout session would, before credits.
func cartContext(cat *catalog.Catalog, payload UpsellQuoteRequest) (upsell.CartContext, error) {
	cart := upsell.CartContext{Products: map[int]int{}}
	var lines []pricing.CartLine
	gross := decimal.Zero

	if payload.ServiceID != nil {
		svc, ok := cat.Service(*payload.ServiceID)
		if !ok {
			return cart, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		cart.Service = &svc
		lines = append(lines, pricing.ServiceLine(svc))
		gross = gross.Add(svc.Price)
	}

	ids := make([]int, 0, len(payload.Products))
	for id := range payload.Products {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		product, ok := cat.Product(id)
		if !ok {
			return cart, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"product_id": id})
		}
		line := pricing.ProductLine(product, payload.Products[id])
		lines = append(lines, line)
		gross = gross.Add(line.Total())
		cart.Products[id] = payload.Products[id]
	}

	for _, id := range payload.Bundles {
		bundle, ok := cat.Bundle(id)
		if !ok {
			return cart, pkgerrors.New(pkgerrors.CodeNotFound, "bundle not found").WithDetails(map[string]any{"bundle_id": id})
		}
		gross = gross.Add(pricing.PriceBundle(bundle, cat).Final)
		cart.Bundles = append(cart.Bundles, id)
	}

	discount := pricing.TotalDiscount(pricing.CalculateBXGYDiscounts(lines, cat.BXGYRules))
	cart.CartValue = money.Clamp0(money.Round2(gross.Sub(discount)))
	return cart, nil
}
