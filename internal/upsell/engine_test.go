package upsell

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(v int) *int { return &v }

var after = []enums.UpsellPlacement{enums.UpsellPlacementAfterService}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Products: []catalog.Product{
			{ID: 1, Name: "Vitamin C Serum", Price: dec("15"), Category: "Skincare", Active: true},
			{ID: 2, Name: "SPF 50 Sunscreen", Price: dec("12"), Category: "Suncare", Active: true},
			{ID: 3, Name: "Sheet Mask", Price: dec("8"), Category: "Skincare", Active: true},
		},
		Services: []catalog.Service{
			{ID: 1, Name: "Hydrafacial", Price: dec("220")},
			{ID: 3, Name: "Signature Facial", Price: dec("280")},
		},
		Bundles: []catalog.Bundle{{
			ID:   1,
			Name: "Glow Kit",
			Items: []catalog.BundleItem{
				{Kind: enums.ItemKindProduct, ID: 1, Quantity: 1},
				{Kind: enums.ItemKindProduct, ID: 2, Quantity: 1},
			},
			DiscountType:  enums.BundleDiscountTypePercentage,
			DiscountValue: dec("10"),
			Active:        true,
		}},
	}
}

func addon(id, priority, productID int) catalog.UpsellRule {
	return catalog.UpsellRule{
		ID:        id,
		Name:      "addon",
		Active:    true,
		Priority:  priority,
		Offer:     catalog.AddonOffer{ProductID: productID},
		Placement: after,
		Headline:  "Add it",
	}
}

func hydrafacialCart() CartContext {
	return CartContext{
		Service:   &catalog.Service{ID: 1, Name: "Hydrafacial", Price: dec("220")},
		Products:  map[int]int{1: 2},
		CartValue: dec("250"),
	}
}

func ruleIDs(suggestions []Suggestion) []int {
	ids := make([]int, len(suggestions))
	for i, s := range suggestions {
		ids[i] = s.RuleID
	}
	return ids
}

func TestEvaluateCapsAtTopTwoByPriority(t *testing.T) {
	rules := []catalog.UpsellRule{
		addon(1, 1, 2),
		addon(2, 7, 2),
		addon(3, 3, 3),
		addon(4, 9, 3),
		addon(5, 5, 2),
	}

	got := NewEngine(0).Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), nil)
	assert.Equal(t, []int{4, 2}, ruleIDs(got))

	got = NewEngine(3).Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), nil)
	assert.Equal(t, []int{4, 2, 5}, ruleIDs(got))
}

func TestEvaluateEqualPrioritiesKeepCatalogOrder(t *testing.T) {
	rules := []catalog.UpsellRule{addon(1, 5, 2), addon(2, 5, 3), addon(3, 5, 2)}
	got := NewEngine(2).Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), nil)
	assert.Equal(t, []int{1, 2}, ruleIDs(got))
}

func TestEvaluateSkipsItemsAlreadyInCart(t *testing.T) {
	bump := addon(2, 1, 1)
	bump.Offer = catalog.QuantityBumpOffer{ProductID: 1}
	bundle := addon(3, 1, 0)
	bundle.Offer = catalog.BundleUpsellOffer{BundleID: 1}
	upgrade := addon(4, 1, 0)
	upgrade.Offer = catalog.UpgradeOffer{ServiceID: 1}
	rules := []catalog.UpsellRule{addon(1, 1, 1), bump, bundle, upgrade}
	engine := NewEngine(10)

	cart := hydrafacialCart()
	cart.Bundles = []int{1}
	assert.Empty(t, engine.Evaluate(rules, cart, enums.UpsellPlacementAfterService, testCatalog(), nil))

	cart.Products = map[int]int{1: 1}
	assert.Equal(t, []int{2}, ruleIDs(engine.Evaluate(rules, cart, enums.UpsellPlacementAfterService, testCatalog(), nil)))
}

func TestEvaluateRespectsDisplayLimits(t *testing.T) {
	limited := addon(1, 1, 2)
	limited.MaxDisplaysPerSession = 2
	once := addon(2, 1, 3)
	once.OnlyShowOnce = true
	rules := []catalog.UpsellRule{limited, once}
	engine := NewEngine(5)

	got := engine.Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), map[int]int{1: 1})
	assert.Equal(t, []int{1, 2}, ruleIDs(got))

	got = engine.Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), map[int]int{1: 2, 2: 1})
	assert.Empty(t, got)
}

func TestEvaluateFiltersPlacementAndActive(t *testing.T) {
	inactive := addon(1, 1, 2)
	inactive.Active = false
	prePayment := addon(2, 1, 3)
	prePayment.Placement = []enums.UpsellPlacement{enums.UpsellPlacementPrePayment}
	rules := []catalog.UpsellRule{inactive, prePayment}
	engine := NewEngine(5)

	assert.Empty(t, engine.Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), nil))
	assert.Equal(t, []int{2}, ruleIDs(engine.Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementPrePayment, testCatalog(), nil)))
}

func TestEvaluateRequiresEveryCondition(t *testing.T) {
	rule := addon(1, 1, 2)
	rule.Conditions = []catalog.UpsellCondition{
		{TriggerType: enums.UpsellTriggerTypeServiceSelected, ServiceName: "Hydrafacial"},
		{TriggerType: enums.UpsellTriggerTypeCartValue, MinCartValue: decPtr("300")},
	}
	engine := NewEngine(2)
	cart := hydrafacialCart()

	assert.Empty(t, engine.Evaluate([]catalog.UpsellRule{rule}, cart, enums.UpsellPlacementAfterService, testCatalog(), nil))

	cart.CartValue = dec("300")
	assert.Len(t, engine.Evaluate([]catalog.UpsellRule{rule}, cart, enums.UpsellPlacementAfterService, testCatalog(), nil), 1)
}

func TestConditionMatching(t *testing.T) {
	cat := testCatalog()
	cart := hydrafacialCart()
	cart.Bundles = []int{1}
	empty := CartContext{}

	cases := []struct {
		name string
		cond catalog.UpsellCondition
		cart CartContext
		want bool
	}{
		{"service by id", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeServiceSelected, ServiceID: intPtr(1)}, cart, true},
		{"service id mismatch", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeServiceSelected, ServiceID: intPtr(3)}, cart, false},
		{"no service", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeServiceSelected}, empty, false},
		{"specific product", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeProductSelected, ProductID: intPtr(1)}, cart, true},
		{"any product", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeProductSelected}, empty, false},
		{"category", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeCategorySelected, ProductCategory: "Skincare"}, cart, true},
		{"category missing", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeCategorySelected, ProductCategory: "Suncare"}, cart, false},
		{"category empty", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeCategorySelected}, cart, false},
		{"bundle", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeBundleSelected, BundleID: intPtr(1)}, cart, true},
		{"any bundle", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeBundleSelected}, empty, false},
		{"cart value unset", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeCartValue}, empty, true},
		{"cart value below", catalog.UpsellCondition{TriggerType: enums.UpsellTriggerTypeCartValue, MinCartValue: decPtr("251")}, cart, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matches(tc.cond, tc.cart, cat))
		})
	}
}

func TestEvaluatePricesOffers(t *testing.T) {
	bundle := addon(1, 3, 0)
	bundle.Offer = catalog.BundleUpsellOffer{BundleID: 1, Name: "Glow Kit"}
	bundle.IncrementalPrice = decPtr("24.30")
	upgrade := addon(2, 2, 0)
	upgrade.Offer = catalog.UpgradeOffer{ServiceID: 3, Name: "Signature Facial"}
	upgrade.DiscountedPrice = decPtr("260")
	percent := addon(3, 1, 2)
	percent.OriginalPrice = decPtr("20")
	percent.DiscountPercentage = decPtr("25")
	rules := []catalog.UpsellRule{bundle, upgrade, percent}

	got := NewEngine(3).Evaluate(rules, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), nil)
	require.Len(t, got, 3)

	assert.Equal(t, enums.OfferedItemTypeBundle, got[0].ItemType)
	assert.True(t, got[0].OriginalPrice.Equal(dec("27")))
	assert.True(t, got[0].FinalPrice.Equal(dec("24.30")))
	require.NotNil(t, got[0].Savings)
	assert.True(t, got[0].Savings.Equal(dec("2.70")))
	assert.True(t, got[0].IncrementalPrice.Equal(dec("24.30")))

	assert.True(t, got[1].OriginalPrice.Equal(dec("280")))
	assert.True(t, got[1].FinalPrice.Equal(dec("260")))
	assert.True(t, got[1].Savings.Equal(dec("20")))

	assert.True(t, got[2].OriginalPrice.Equal(dec("20")))
	assert.True(t, got[2].FinalPrice.Equal(dec("15")))
	assert.Equal(t, enums.UpsellPlacementAfterService, got[2].Placement)
}

func TestEvaluateOmitsSavingsWithoutDiscount(t *testing.T) {
	got := NewEngine(1).Evaluate([]catalog.UpsellRule{addon(1, 1, 2)}, hydrafacialCart(), enums.UpsellPlacementAfterService, testCatalog(), nil)
	require.Len(t, got, 1)
	assert.True(t, got[0].FinalPrice.Equal(dec("12")))
	assert.Nil(t, got[0].Savings)
}
