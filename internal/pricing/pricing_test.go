package pricing

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

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Products: []catalog.Product{
			{ID: 1, Name: "Vitamin C Serum", Price: dec("15"), Category: "Skincare", Active: true},
			{ID: 2, Name: "SPF 50 Sunscreen", Price: dec("12"), Category: "Skincare", Active: true},
		},
		Services: []catalog.Service{
			{ID: 1, Name: "Hydrafacial", Price: dec("220")},
		},
	}
}

func skincareLines() []CartLine {
	return []CartLine{
		{Kind: enums.ItemKindProduct, ID: 10, Name: "Toner", Price: dec("10"), Quantity: 1, Category: "Skincare"},
		{Kind: enums.ItemKindProduct, ID: 11, Name: "Lip Balm", Price: dec("5"), Quantity: 1, Category: "Skincare"},
		{Kind: enums.ItemKindProduct, ID: 12, Name: "Sheet Mask", Price: dec("8"), Quantity: 1, Category: "Skincare"},
	}
}

func TestPriceBundlePercentage(t *testing.T) {
	bundle := catalog.Bundle{
		ID:   1,
		Name: "Glow Kit",
		Items: []catalog.BundleItem{
			{Kind: enums.ItemKindProduct, ID: 1, Name: "Vitamin C Serum", Quantity: 1},
			{Kind: enums.ItemKindProduct, ID: 2, Name: "SPF 50 Sunscreen", Quantity: 1},
		},
		DiscountType:  enums.BundleDiscountTypePercentage,
		DiscountValue: dec("10"),
	}

	price := PriceBundle(bundle, testCatalog())
	assert.True(t, price.Original.Equal(dec("27")))
	assert.True(t, price.Final.Equal(dec("24.30")))
	assert.True(t, price.Savings.Equal(dec("2.70")))

	saving := BundleSavings(bundle, price)
	require.NotNil(t, saving)
	assert.Equal(t, enums.DiscountSourceBundle, saving.Source)
	assert.Equal(t, []string{"Vitamin C Serum (×1)", "SPF 50 Sunscreen (×1)"}, saving.AffectedItems)
}

func TestPriceBundleFinalPriceTakesPrecedence(t *testing.T) {
	bundle := catalog.Bundle{
		ID: 2,
		Items: []catalog.BundleItem{
			{Kind: enums.ItemKindService, Name: "Hydrafacial", Quantity: 1},
			{Kind: enums.ItemKindProduct, ID: 1, Name: "Vitamin C Serum", Quantity: 1},
		},
		DiscountType:  enums.BundleDiscountTypePercentage,
		DiscountValue: dec("50"),
		FinalPrice:    decPtr("199"),
	}

	price := PriceBundle(bundle, testCatalog())
	assert.True(t, price.Original.Equal(dec("235")))
	assert.True(t, price.Final.Equal(dec("199")))
	assert.True(t, price.Savings.Equal(dec("36")))
}

func TestPriceBundleClampsFixedDiscount(t *testing.T) {
	bundle := catalog.Bundle{
		Items: []catalog.BundleItem{
			{Kind: enums.ItemKindProduct, ID: 2, Quantity: 1},
			{Kind: enums.ItemKindProduct, ID: 99, Quantity: 3},
		},
		DiscountType:  enums.BundleDiscountTypeFixed,
		DiscountValue: dec("40"),
	}

	price := PriceBundle(bundle, testCatalog())
	assert.True(t, price.Original.Equal(dec("12")), "missing items contribute nothing")
	assert.True(t, price.Final.IsZero())
	assert.True(t, price.Savings.Equal(dec("12")))
}

func TestBundleSavingsNilWithoutSaving(t *testing.T) {
	price := BundlePrice{Original: dec("20"), Final: dec("25"), Savings: decimal.Zero}
	assert.Nil(t, BundleSavings(catalog.Bundle{}, price))
}

func TestApplyBXGYSameItemDiscountsCheapestFirst(t *testing.T) {
	rule := catalog.BXGYRule{
		ID:          1,
		Name:        "Buy 2 get 1 free",
		Active:      true,
		BuyQuantity: 2,
		BuyItemType: enums.BuyItemTypeProduct,
		BuyCategory: "Skincare",
		RuleType:    enums.BXGYRuleTypeFreeItem,
		GetQuantity: 1,
		TargetType:  enums.BXGYTargetTypeSameItem,
	}

	discount := ApplyBXGY(rule, skincareLines())
	require.NotNil(t, discount)
	assert.True(t, discount.Amount.Equal(dec("5")))
	assert.Equal(t, []string{"Lip Balm (×1)"}, discount.AffectedItems)
	assert.Equal(t, enums.DiscountSourceBXGY, discount.Source)
}

func TestIsBXGYEligible(t *testing.T) {
	rule := catalog.BXGYRule{
		Active:      true,
		BuyQuantity: 2,
		BuyItemType: enums.BuyItemTypeProduct,
		BuyItemID:   intPtr(2),
		RuleType:    enums.BXGYRuleTypePercentageDiscount,
		GetQuantity: 1,
		TargetType:  enums.BXGYTargetTypeSameItem,
	}
	line := func(qty int) []CartLine {
		return []CartLine{{Kind: enums.ItemKindProduct, ID: 2, Price: dec("12"), Quantity: qty}}
	}

	assert.False(t, IsBXGYEligible(rule, line(2)), "same_item needs buy plus get units")
	assert.True(t, IsBXGYEligible(rule, line(3)))

	rule.TargetType = enums.BXGYTargetTypeCategory
	assert.True(t, IsBXGYEligible(rule, line(2)))

	rule.Active = false
	assert.False(t, IsBXGYEligible(rule, line(5)))
}

func TestApplyBXGYSpecificItemCapsAtLineQuantity(t *testing.T) {
	rule := catalog.BXGYRule{
		ID:            3,
		Active:        true,
		BuyQuantity:   1,
		BuyItemType:   enums.BuyItemTypeService,
		RuleType:      enums.BXGYRuleTypePercentageDiscount,
		GetQuantity:   3,
		GetItemType:   enums.ItemKindProduct,
		GetItemID:     intPtr(1),
		DiscountValue: dec("50"),
		TargetType:    enums.BXGYTargetTypeSpecificItem,
	}
	cart := []CartLine{
		ServiceLine(catalog.Service{ID: 1, Name: "Hydrafacial", Price: dec("220")}),
		ProductLine(catalog.Product{ID: 1, Name: "Vitamin C Serum", Price: dec("15")}, 2),
	}

	discount := ApplyBXGY(rule, cart)
	require.NotNil(t, discount)
	assert.True(t, discount.Amount.Equal(dec("15")))
	assert.Equal(t, []string{"Vitamin C Serum (×2)"}, discount.AffectedItems)
}

func TestApplyBXGYCategorySpansLines(t *testing.T) {
	rule := catalog.BXGYRule{
		Active:        true,
		BuyQuantity:   1,
		BuyItemType:   enums.BuyItemTypeAny,
		RuleType:      enums.BXGYRuleTypeFixedDiscount,
		GetQuantity:   2,
		GetCategory:   "Skincare",
		DiscountValue: dec("1.50"),
		TargetType:    enums.BXGYTargetTypeCategory,
	}

	discount := ApplyBXGY(rule, skincareLines())
	require.NotNil(t, discount)
	assert.True(t, discount.Amount.Equal(dec("3")))
	assert.Equal(t, []string{"Lip Balm (×1)", "Sheet Mask (×1)"}, discount.AffectedItems)
}

func TestApplyBXGYSuppressesZeroDiscount(t *testing.T) {
	rule := catalog.BXGYRule{
		Active:      true,
		BuyQuantity: 1,
		BuyItemType: enums.BuyItemTypeAny,
		RuleType:    enums.BXGYRuleTypeFixedDiscount,
		GetQuantity: 1,
		TargetType:  enums.BXGYTargetTypeSameItem,
	}
	assert.Nil(t, ApplyBXGY(rule, skincareLines()))
}

func TestCalculateBXGYDiscountsStacksRules(t *testing.T) {
	free := catalog.BXGYRule{
		ID:          1,
		Active:      true,
		BuyQuantity: 2,
		BuyItemType: enums.BuyItemTypeAny,
		RuleType:    enums.BXGYRuleTypeFreeItem,
		GetQuantity: 1,
		TargetType:  enums.BXGYTargetTypeSameItem,
	}
	percent := free
	percent.ID = 2
	percent.RuleType = enums.BXGYRuleTypePercentageDiscount
	percent.DiscountValue = dec("10")
	inactive := free
	inactive.ID = 3
	inactive.Active = false

	discounts := CalculateBXGYDiscounts(skincareLines(), []catalog.BXGYRule{free, percent, inactive})
	require.Len(t, discounts, 2)
	assert.True(t, discounts[0].Amount.Equal(dec("5")))
	assert.True(t, discounts[1].Amount.Equal(dec("0.5")))
	assert.True(t, TotalDiscount(discounts).Equal(dec("5.5")))
}
