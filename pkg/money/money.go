// Package money holds the rounding and reconciliation primitives every
// monetary output in the checkout engine passes through.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to two fractional digits, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Clamp0 returns d, or zero when d is negative.
func Clamp0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// PercentOf returns amount × pct / 100 without rounding.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// DiscountByPercent returns amount × (1 − pct/100) without rounding.
func DiscountByPercent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Sub(PercentOf(amount, pct))
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Sum adds the provided amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// ReconcileInstallments splits raw into count rounded shares. The last share
// absorbs the rounding remainder so the shares always sum to raw exactly.
func ReconcileInstallments(raw decimal.Decimal, count int) []decimal.Decimal {
	if count <= 0 {
		return []decimal.Decimal{}
	}
	share := Round2(raw.Div(decimal.NewFromInt(int64(count))))
	shares := make([]decimal.Decimal, count)
	accumulated := decimal.Zero
	for i := 0; i < count-1; i++ {
		shares[i] = share
		accumulated = accumulated.Add(share)
	}
	shares[count-1] = raw.Sub(accumulated)
	return shares
}

// ParsePrice extracts an amount from a display price such as "£220.00".
// Everything other than digits, '.' and a leading '-' is dropped.
func ParsePrice(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, fmt.Errorf("price %q has no numeric value", raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return d, nil
}

// Format renders an amount with two fractional digits.
func Format(d decimal.Decimal) string {
	return Round2(d).StringFixed(2)
}
