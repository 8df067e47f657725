package downsell

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/paymentplan"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

// Resolution is a downsell offer resolved against the catalog.
type Resolution interface {
	OfferType() enums.DownsellOfferType
	isResolution()
}

type PaymentPlanResolution struct {
	Plan     catalog.PaymentPlan
	Schedule paymentplan.Schedule
}

type ScaledOfferResolution struct {
	Offer         catalog.ScaledOffer
	OriginalPrice *decimal.Decimal
	NewPrice      decimal.Decimal
	Savings       *decimal.Decimal
}

type TrialCreditResolution struct {
	Amount      decimal.Decimal
	Description string
}

func (PaymentPlanResolution) OfferType() enums.DownsellOfferType { return enums.DownsellOfferTypePaymentPlan }
func (PaymentPlanResolution) isResolution()                      {}
func (ScaledOfferResolution) OfferType() enums.DownsellOfferType { return enums.DownsellOfferTypeScaledOffer }
func (ScaledOfferResolution) isResolution()                      {}
func (TrialCreditResolution) OfferType() enums.DownsellOfferType { return enums.DownsellOfferTypeTrialCredit }
func (TrialCreditResolution) isResolution()                      {}

// Suggestion is the one downsell offer a session may hold at a time.
type Suggestion struct {
	RuleID      int
	RuleName    string
	Headline    string
	Subheadline string
	Trigger     enums.DownsellTrigger
	Resolution  Resolution
}

type suggestionJSON struct {
	RuleID                 int                     `json:"rule_id"`
	RuleName               string                  `json:"rule_name"`
	OfferType              enums.DownsellOfferType `json:"offer_type"`
	Headline               string                  `json:"headline"`
	Subheadline            string                  `json:"subheadline,omitempty"`
	Trigger                enums.DownsellTrigger   `json:"trigger"`
	PaymentPlan            *catalog.PaymentPlan    `json:"payment_plan,omitempty"`
	PaymentSchedule        *paymentplan.Schedule   `json:"payment_schedule,omitempty"`
	ScaledOffer            *catalog.ScaledOffer    `json:"scaled_offer,omitempty"`
	OriginalPrice          *decimal.Decimal        `json:"original_price,omitempty"`
	NewPrice               *decimal.Decimal        `json:"new_price,omitempty"`
	Savings                *decimal.Decimal        `json:"savings,omitempty"`
	TrialCreditAmount      *decimal.Decimal        `json:"trial_credit_amount,omitempty"`
	TrialCreditDescription string                  `json:"trial_credit_description,omitempty"`
}

// MarshalJSON flattens the resolution next to the rule fields.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	out := suggestionJSON{
		RuleID:      s.RuleID,
		RuleName:    s.RuleName,
		Headline:    s.Headline,
		Subheadline: s.Subheadline,
		Trigger:     s.Trigger,
	}
	switch r := s.Resolution.(type) {
	case PaymentPlanResolution:
		out.OfferType = r.OfferType()
		out.PaymentPlan = &r.Plan
		out.PaymentSchedule = &r.Schedule
	case ScaledOfferResolution:
		out.OfferType = r.OfferType()
		out.ScaledOffer = &r.Offer
		out.OriginalPrice = r.OriginalPrice
		out.NewPrice = &r.NewPrice
		out.Savings = r.Savings
	case TrialCreditResolution:
		out.OfferType = r.OfferType()
		out.TrialCreditAmount = &r.Amount
		out.TrialCreditDescription = r.Description
	}
	return json.Marshal(out)
}
