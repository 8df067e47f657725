package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

// AppliedDiscount is a bundle or buy X get Y saving applied to the cart.
type AppliedDiscount struct {
	Source        enums.DiscountSource `json:"type"`
	ID            int                  `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description,omitempty"`
	Amount        decimal.Decimal      `json:"discount_amount"`
	AffectedItems []string             `json:"affected_items"`
}

// TotalDiscount sums the discount amounts.
func TotalDiscount(discounts []AppliedDiscount) decimal.Decimal {
	total := decimal.Zero
	for _, d := range discounts {
		total = total.Add(d.Amount)
	}
	return total
}

func matchesBuy(rule catalog.BXGYRule, line CartLine) bool {
	if rule.BuyItemType != enums.BuyItemTypeAny && string(line.Kind) != string(rule.BuyItemType) {
		return false
	}
	if rule.BuyItemID != nil && line.ID != *rule.BuyItemID {
		return false
	}
	if rule.BuyCategory != "" && line.Category != rule.BuyCategory {
		return false
	}
	return true
}

func buyPool(rule catalog.BXGYRule, cart []CartLine) []CartLine {
	var pool []CartLine
	for _, line := range cart {
		if matchesBuy(rule, line) {
			pool = append(pool, line)
		}
	}
	return pool
}

// IsBXGYEligible reports whether the cart holds enough qualifying units. A
// same_item rule draws both the bought and the discounted units from one
// pool, so it needs buy plus get units.
func IsBXGYEligible(rule catalog.BXGYRule, cart []CartLine) bool {
	if !rule.Active {
		return false
	}
	units := 0
	for _, line := range buyPool(rule, cart) {
		units += line.Quantity
	}
	if rule.TargetType == enums.BXGYTargetTypeSameItem {
		return units >= rule.BuyQuantity+rule.GetQuantity
	}
	return units >= rule.BuyQuantity
}

// ApplyBXGY computes the discount a rule grants, or nil when the rule is
// ineligible or would discount nothing. Target pools are walked cheapest
// first.
func ApplyBXGY(rule catalog.BXGYRule, cart []CartLine) *AppliedDiscount {
	if !IsBXGYEligible(rule, cart) {
		return nil
	}

	var targets []CartLine
	switch rule.TargetType {
	case enums.BXGYTargetTypeSameItem:
		targets = cheapestFirst(buyPool(rule, cart))
	case enums.BXGYTargetTypeSpecificItem:
		if line, ok := specificTarget(rule, cart); ok {
			targets = []CartLine{line}
		}
	case enums.BXGYTargetTypeCategory:
		targets = cheapestFirst(categoryPool(rule.GetCategory, cart))
	}

	amount := decimal.Zero
	var affected []string
	remaining := rule.GetQuantity
	for _, line := range targets {
		if remaining <= 0 {
			break
		}
		units := min(remaining, line.Quantity)
		amount = amount.Add(unitDiscount(rule, line).Mul(decimal.NewFromInt(int64(units))))
		affected = append(affected, fmt.Sprintf("%s (×%d)", line.Name, units))
		remaining -= units
	}

	amount = money.Round2(amount)
	if !amount.IsPositive() {
		return nil
	}
	return &AppliedDiscount{
		Source:        enums.DiscountSourceBXGY,
		ID:            rule.ID,
		Name:          rule.Name,
		Description:   rule.Description,
		Amount:        amount,
		AffectedItems: affected,
	}
}

// CalculateBXGYDiscounts evaluates every active rule independently. Rules
// are not capped and may stack on the same line.
func CalculateBXGYDiscounts(cart []CartLine, rules []catalog.BXGYRule) []AppliedDiscount {
	var discounts []AppliedDiscount
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if d := ApplyBXGY(rule, cart); d != nil {
			discounts = append(discounts, *d)
		}
	}
	return discounts
}

func unitDiscount(rule catalog.BXGYRule, line CartLine) decimal.Decimal {
	switch rule.RuleType {
	case enums.BXGYRuleTypeFreeItem:
		return line.Price
	case enums.BXGYRuleTypePercentageDiscount:
		return money.PercentOf(line.Price, rule.DiscountValue)
	case enums.BXGYRuleTypeFixedDiscount:
		return rule.DiscountValue
	}
	return decimal.Zero
}

func specificTarget(rule catalog.BXGYRule, cart []CartLine) (CartLine, bool) {
	if rule.GetItemID == nil {
		return CartLine{}, false
	}
	for _, line := range cart {
		if line.Kind == rule.GetItemType && line.ID == *rule.GetItemID {
			return line, true
		}
	}
	return CartLine{}, false
}

func categoryPool(category string, cart []CartLine) []CartLine {
	if category == "" {
		return nil
	}
	var pool []CartLine
	for _, line := range cart {
		if line.Category == category {
			pool = append(pool, line)
		}
	}
	return pool
}

func cheapestFirst(lines []CartLine) []CartLine {
	sorted := append([]CartLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.LessThan(sorted[j].Price)
	})
	return sorted
}
