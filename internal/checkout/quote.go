package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/pricing"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

// Quote is the live price breakdown of a session. Commit uses the same
// arithmetic.
type Quote struct {
	State                enums.CheckoutState       `json:"state"`
	ServiceName          string                    `json:"service_name,omitempty"`
	ServicePrice         decimal.Decimal           `json:"service_price"`
	OriginalServicePrice decimal.Decimal           `json:"original_service_price"`
	Products             []ProductLine             `json:"products"`
	ProductTotal         decimal.Decimal           `json:"product_total"`
	Bundles              []SelectedBundle          `json:"bundles"`
	BundleTotal          decimal.Decimal           `json:"bundle_total"`
	Discounts            []pricing.AppliedDiscount `json:"discounts"`
	CartSubtotal         decimal.Decimal           `json:"cart_subtotal"`
	CreditsToApply       []catalog.UpgradeCredit   `json:"credits_to_apply"`
	CreditsApplied       decimal.Decimal           `json:"credits_applied"`
	SubtotalAfterCredits decimal.Decimal           `json:"subtotal_after_credits"`
	PaymentPlan          *SelectedPaymentPlan      `json:"payment_plan,omitempty"`
	PaymentPlanFee       decimal.Decimal           `json:"payment_plan_fee"`
	FinalTotal           decimal.Decimal           `json:"final_total"`
	DueToday             decimal.Decimal           `json:"due_today"`
	OriginalTotal        decimal.Decimal           `json:"original_total"`
	TotalSavings         decimal.Decimal           `json:"total_savings"`
	ScaledOfferSavings   decimal.Decimal           `json:"scaled_offer_savings"`
	IssuedCreditTotal    decimal.Decimal           `json:"issued_credit_total"`
}

func (s *Session) Quote() Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.totals()
	q.State = s.state()
	return q
}

func (s *Session) totals() Quote {
	var q Quote
	var lines []pricing.CartLine
	if s.service != nil {
		q.ServiceName = s.service.Name
		q.ServicePrice = s.service.Price
		lines = append(lines, pricing.ServiceLine(*s.service))
	}
	q.OriginalServicePrice = q.ServicePrice
	if s.scaled != nil && s.scaled.OriginalItemType == enums.ScaledItemTypeService {
		q.OriginalServicePrice = s.scaled.OriginalPrice
		q.ScaledOfferSavings = s.scaled.Savings()
	}

	for _, sel := range s.products {
		product, ok := s.cat.Product(sel.id)
		if !ok {
			continue
		}
		line := pricing.ProductLine(product, sel.quantity)
		lines = append(lines, line)
		q.Products = append(q.Products, ProductLine{ID: product.ID, Name: product.Name, Price: product.Price, Quantity: sel.quantity})
		q.ProductTotal = q.ProductTotal.Add(line.Total())
	}

	bundleOriginal := decimal.Zero
	for _, id := range s.bundles {
		bundle, ok := s.cat.Bundle(id)
		if !ok {
			continue
		}
		price := pricing.PriceBundle(bundle, s.cat)
		if s.scaled != nil && s.scaled.OriginalItemType == enums.ScaledItemTypeBundle && s.scaled.OriginalItemID == id {
			price.Final = s.scaled.NewPrice
			price.Savings = money.Clamp0(price.Original.Sub(price.Final))
			q.ScaledOfferSavings = s.scaled.Savings()
		}
		if saving := pricing.BundleSavings(bundle, price); saving != nil {
			q.Discounts = append(q.Discounts, *saving)
		}
		bundleOriginal = bundleOriginal.Add(price.Original)
		q.Bundles = append(q.Bundles, SelectedBundle{ID: bundle.ID, Name: bundle.Name, Price: price})
		q.BundleTotal = q.BundleTotal.Add(price.Final)
	}

	bxgy := pricing.CalculateBXGYDiscounts(lines, s.cat.BXGYRules)
	q.Discounts = append(q.Discounts, bxgy...)

	q.ProductTotal = money.Round2(q.ProductTotal)
	q.BundleTotal = money.Round2(q.BundleTotal)
	gross := money.Sum(q.ServicePrice, q.ProductTotal, q.BundleTotal)
	q.CartSubtotal = money.Clamp0(money.Round2(gross.Sub(pricing.TotalDiscount(bxgy))))

	q.CreditsToApply = s.creditsToApply(q.CartSubtotal)
	available := decimal.Zero
	for _, c := range q.CreditsToApply {
		available = available.Add(c.Amount)
	}
	q.CreditsApplied = money.Round2(money.Min(available, q.CartSubtotal))
	q.SubtotalAfterCredits = money.Clamp0(q.CartSubtotal.Sub(q.CreditsApplied))

	q.FinalTotal = q.SubtotalAfterCredits
	q.DueToday = q.SubtotalAfterCredits
	if s.plan != nil {
		plan := *s.plan
		q.PaymentPlan = &plan
		q.FinalTotal = plan.Schedule.TotalAmount
		q.DueToday = plan.Schedule.DueToday
		q.PaymentPlanFee = money.Clamp0(q.FinalTotal.Sub(q.SubtotalAfterCredits))
	}

	q.OriginalTotal = money.Round2(money.Sum(q.OriginalServicePrice, q.ProductTotal, bundleOriginal))
	q.TotalSavings = money.Clamp0(q.OriginalTotal.Sub(q.FinalTotal))
	for _, c := range s.issued {
		q.IssuedCreditTotal = q.IssuedCreditTotal.Add(c.Amount)
	}
	return q
}
