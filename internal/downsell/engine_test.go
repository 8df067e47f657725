package downsell

import (
	"encoding/json"
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

var (
	plans = []catalog.PaymentPlan{
		{ID: 1, Name: "Half now", Type: enums.PaymentPlanTypeHalfNowHalfLater, InstallmentCount: 2, MinCartValue: decPtr("150"), Active: true},
		{ID: 2, Name: "Three pay", Type: enums.PaymentPlanTypeThreePay, InstallmentCount: 3, MinCartValue: decPtr("100"), ProcessingFeePercentage: decPtr("3"), Active: true},
		{ID: 3, Name: "Six pay", Type: enums.PaymentPlanTypeSixPay, InstallmentCount: 6, Active: false},
	}
	offers = []catalog.ScaledOffer{
		{ID: 1, Name: "Express Hydrafacial", OriginalItemType: enums.ScaledItemTypeService, OriginalItemID: 1, ReducedPrice: dec("149"), Active: true},
		{ID: 2, Name: "Retired", ReducedPrice: dec("99"), Active: false},
	}
)

func rule(id, priority int, trigger enums.DownsellTrigger, offer catalog.DownsellOffer) catalog.DownsellRule {
	return catalog.DownsellRule{
		ID:         id,
		Name:       "rule",
		Active:     true,
		Priority:   priority,
		Conditions: []catalog.DownsellCondition{{TriggerType: trigger}},
		Offer:      offer,
		Headline:   "Stay with us",
	}
}

func TestEvaluateReturnsSingleTopMatch(t *testing.T) {
	rules := []catalog.DownsellRule{
		rule(1, 1, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("25")}),
		rule(2, 10, enums.DownsellTriggerUpsellDeclined, catalog.PaymentPlanOffer{PlanID: 2}),
		rule(3, 20, enums.DownsellTriggerCheckoutHesitation, catalog.ScaledOfferOffer{OfferID: 1}),
	}

	got := Evaluate(rules, Context{CartValue: dec("262")}, enums.DownsellTriggerUpsellDeclined, plans, offers, nil)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.RuleID)
	assert.Equal(t, enums.DownsellTriggerUpsellDeclined, got.Trigger)

	res, ok := got.Resolution.(PaymentPlanResolution)
	require.True(t, ok)
	assert.True(t, res.Schedule.TotalAmount.Equal(dec("269.86")))
	require.NotNil(t, res.Schedule.ProcessingFee)
	assert.True(t, res.Schedule.ProcessingFee.Equal(dec("7.86")))
}

func TestEvaluateVoidsUnresolvablePlans(t *testing.T) {
	below := []catalog.DownsellRule{rule(1, 1, enums.DownsellTriggerCartValueThreshold, catalog.PaymentPlanOffer{PlanID: 1})}
	assert.Nil(t, Evaluate(below, Context{CartValue: dec("149.99")}, enums.DownsellTriggerCartValueThreshold, plans, offers, nil))

	inactive := []catalog.DownsellRule{rule(1, 1, enums.DownsellTriggerCartValueThreshold, catalog.PaymentPlanOffer{PlanID: 3})}
	assert.Nil(t, Evaluate(inactive, Context{CartValue: dec("900")}, enums.DownsellTriggerCartValueThreshold, plans, offers, nil))

	missing := []catalog.DownsellRule{rule(1, 1, enums.DownsellTriggerCartValueThreshold, catalog.PaymentPlanOffer{PlanID: 42})}
	assert.Nil(t, Evaluate(missing, Context{CartValue: dec("900")}, enums.DownsellTriggerCartValueThreshold, plans, offers, nil))
}

func TestEvaluateVoidDoesNotFallThrough(t *testing.T) {
	rules := []catalog.DownsellRule{
		rule(1, 10, enums.DownsellTriggerUpsellDeclined, catalog.ScaledOfferOffer{OfferID: 2}),
		rule(2, 1, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("25")}),
	}
	assert.Nil(t, Evaluate(rules, Context{CartValue: dec("100")}, enums.DownsellTriggerUpsellDeclined, plans, offers, nil))
}

func TestEvaluateScaledOfferSavings(t *testing.T) {
	rules := []catalog.DownsellRule{rule(1, 1, enums.DownsellTriggerCheckoutHesitation, catalog.ScaledOfferOffer{OfferID: 1})}

	got := Evaluate(rules, Context{CartValue: dec("220"), OriginalPrice: decPtr("220")}, enums.DownsellTriggerCheckoutHesitation, plans, offers, nil)
	require.NotNil(t, got)
	res := got.Resolution.(ScaledOfferResolution)
	assert.True(t, res.NewPrice.Equal(dec("149")))
	require.NotNil(t, res.Savings)
	assert.True(t, res.Savings.Equal(dec("71")))

	got = Evaluate(rules, Context{CartValue: dec("220")}, enums.DownsellTriggerCheckoutHesitation, plans, offers, nil)
	require.NotNil(t, got)
	assert.Nil(t, got.Resolution.(ScaledOfferResolution).Savings)
}

func TestEvaluateTrialCredit(t *testing.T) {
	credit := rule(1, 1, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("25"), Description: "£25 off"})
	got := Evaluate([]catalog.DownsellRule{credit}, Context{}, enums.DownsellTriggerUpsellDeclined, plans, offers, nil)
	require.NotNil(t, got)
	res := got.Resolution.(TrialCreditResolution)
	assert.Equal(t, "£25 off", res.Description)
	assert.True(t, res.Amount.Equal(dec("25")))

	credit.Offer = catalog.TrialCreditOffer{}
	assert.Nil(t, Evaluate([]catalog.DownsellRule{credit}, Context{}, enums.DownsellTriggerUpsellDeclined, plans, offers, nil))
}

func TestEvaluateQualifiers(t *testing.T) {
	r := rule(1, 1, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("10")})
	r.Conditions[0].DeclinedItemType = enums.DeclinedItemTypeProduct
	r.Conditions[0].DeclinedItemID = intPtr(2)
	r.Conditions[0].MinCartValue = decPtr("50")
	rules := []catalog.DownsellRule{r}

	ok := Context{CartValue: dec("50"), LastDeclinedItemType: enums.DeclinedItemTypeProduct, LastDeclinedItemID: intPtr(2)}
	assert.NotNil(t, Evaluate(rules, ok, enums.DownsellTriggerUpsellDeclined, plans, offers, nil))

	wrongType := ok
	wrongType.LastDeclinedItemType = enums.DeclinedItemTypeBundle
	assert.Nil(t, Evaluate(rules, wrongType, enums.DownsellTriggerUpsellDeclined, plans, offers, nil))

	wrongID := ok
	wrongID.LastDeclinedItemID = intPtr(3)
	assert.Nil(t, Evaluate(rules, wrongID, enums.DownsellTriggerUpsellDeclined, plans, offers, nil))

	noID := ok
	noID.LastDeclinedItemID = nil
	assert.Nil(t, Evaluate(rules, noID, enums.DownsellTriggerUpsellDeclined, plans, offers, nil))

	cheap := ok
	cheap.CartValue = dec("49.99")
	assert.Nil(t, Evaluate(rules, cheap, enums.DownsellTriggerUpsellDeclined, plans, offers, nil))

	assert.Nil(t, Evaluate(rules, ok, enums.DownsellTriggerCheckoutHesitation, plans, offers, nil))
}

func TestEvaluateSkipsShownOnceRules(t *testing.T) {
	once := rule(1, 10, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("10")})
	once.OnlyShowOnce = true
	repeat := rule(2, 5, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("5")})
	rules := []catalog.DownsellRule{once, repeat}

	got := Evaluate(rules, Context{}, enums.DownsellTriggerUpsellDeclined, plans, offers, nil)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.RuleID)

	shown := map[int]struct{}{1: {}, 2: {}}
	got = Evaluate(rules, Context{}, enums.DownsellTriggerUpsellDeclined, plans, offers, shown)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.RuleID)
}

func TestEvaluateUnconditionedRuleMatchesEveryTrigger(t *testing.T) {
	bare := rule(3, 1, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("15"), Description: "next visit"})
	bare.Conditions = nil
	rules := []catalog.DownsellRule{bare}

	for _, trigger := range []enums.DownsellTrigger{
		enums.DownsellTriggerCheckoutHesitation,
		enums.DownsellTriggerUpsellDeclined,
		enums.DownsellTriggerCartValueThreshold,
	} {
		got := Evaluate(rules, Context{CartValue: dec("120")}, trigger, plans, offers, nil)
		require.NotNil(t, got, "trigger %s", trigger)
		assert.Equal(t, 3, got.RuleID)
		assert.Equal(t, trigger, got.Trigger)
		res, ok := got.Resolution.(TrialCreditResolution)
		require.True(t, ok)
		assert.Equal(t, "15.00", res.Amount.StringFixed(2))
	}

	conditioned := rule(4, 10, enums.DownsellTriggerUpsellDeclined, catalog.TrialCreditOffer{Amount: dec("30")})
	got := Evaluate([]catalog.DownsellRule{bare, conditioned}, Context{}, enums.DownsellTriggerUpsellDeclined, plans, offers, nil)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.RuleID, "priority still decides")
}

func TestSuggestionMarshalFlattensResolution(t *testing.T) {
	s := Suggestion{
		RuleID:     4,
		Headline:   "Try it next time",
		Trigger:    enums.DownsellTriggerUpsellDeclined,
		Resolution: TrialCreditResolution{Amount: dec("25"), Description: "£25 off"},
	}
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "trial_credit", decoded["offer_type"])
	assert.Equal(t, "25", decoded["trial_credit_amount"])
	assert.NotContains(t, decoded, "payment_schedule")
}
