package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
)

type checkoutTestContext struct {
	cat     *catalog.Catalog
	clock   *manualClock
	session *Session
	booking *Booking
	err     error
}

func (c *checkoutTestContext) reset() {
	*c = checkoutTestContext{}
}

func expectMoney(field, want string, got decimal.Decimal) error {
	if got.StringFixed(2) != want {
		return fmt.Errorf("expected %s %s, got %s", field, want, got.StringFixed(2))
	}
	return nil
}

func parseIDs(list string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(list, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *checkoutTestContext) theClinicCatalog() error {
	cat, err := catalog.LoadFile(fixturePath)
	if err != nil {
		return err
	}
	c.cat = cat
	return nil
}

func (c *checkoutTestContext) aCheckoutFor(patient string) error {
	c.clock = newManualClock(fixtureNow)
	s, err := NewSession(SessionParams{Catalog: c.cat, PatientName: patient, Clock: c.clock})
	if err != nil {
		return err
	}
	c.session = s
	return nil
}

func (c *checkoutTestContext) iSelectTheService(name string) error {
	return c.session.SelectServiceByName(context.Background(), name)
}

func (c *checkoutTestContext) iSetProductToQuantity(productID, quantity int) error {
	return c.session.SetProductQuantity(context.Background(), productID, quantity)
}

func (c *checkoutTestContext) iAcceptUpsellRule(ruleID int) error {
	return c.session.AcceptUpsell(context.Background(), ruleID)
}

func (c *checkoutTestContext) iDeclineUpsellRule(ruleID int) error {
	return c.session.DeclineUpsell(context.Background(), ruleID)
}

func (c *checkoutTestContext) iAcceptTheDownsell() error {
	return c.session.AcceptDownsell(context.Background())
}

func (c *checkoutTestContext) iSelectTheTimeSlot(slot string) error {
	return c.session.SelectTimeSlot(context.Background(), slot)
}

func (c *checkoutTestContext) secondsPass(seconds int) error {
	c.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (c *checkoutTestContext) iCommitTheCheckout() error {
	c.booking, c.err = c.session.Commit(context.Background())
	return nil
}

func (c *checkoutTestContext) theUpsellOffersAreRules(list string) error {
	want, err := parseIDs(list)
	if err != nil {
		return err
	}
	current := c.session.CurrentUpsells()
	if len(current) != len(want) {
		return fmt.Errorf("expected %d upsells, got %d", len(want), len(current))
	}
	for i, sug := range current {
		if sug.RuleID != want[i] {
			return fmt.Errorf("expected upsell %d at position %d, got %d", want[i], i, sug.RuleID)
		}
	}
	return nil
}

func (c *checkoutTestContext) downsellRuleIsOffered(ruleID int) error {
	offer := c.session.CurrentDownsell()
	if offer == nil {
		return errors.New("expected a downsell offer")
	}
	if offer.RuleID != ruleID {
		return fmt.Errorf("expected downsell rule %d, got %d", ruleID, offer.RuleID)
	}
	return nil
}

func (c *checkoutTestContext) noDownsellIsOffered() error {
	if offer := c.session.CurrentDownsell(); offer != nil {
		return fmt.Errorf("expected no downsell, got rule %d", offer.RuleID)
	}
	return nil
}

func (c *checkoutTestContext) theCartSubtotalIs(amount string) error {
	return expectMoney("cart subtotal", amount, c.session.Quote().CartSubtotal)
}

func (c *checkoutTestContext) theFinalTotalIs(amount string) error {
	return expectMoney("final total", amount, c.session.Quote().FinalTotal)
}

func (c *checkoutTestContext) thePaymentPlanFeeIs(amount string) error {
	return expectMoney("payment plan fee", amount, c.session.Quote().PaymentPlanFee)
}

func (c *checkoutTestContext) theTotalSavingsAre(amount string) error {
	return expectMoney("total savings", amount, c.session.Quote().TotalSavings)
}

func (c *checkoutTestContext) theInstallmentsAre(list string) error {
	plan := c.session.Quote().PaymentPlan
	if plan == nil {
		return errors.New("expected a payment plan")
	}
	var got []string
	for _, inst := range plan.Schedule.Installments {
		got = append(got, inst.Amount.StringFixed(2))
	}
	if strings.Join(got, ", ") != list {
		return fmt.Errorf("expected installments %s, got %s", list, strings.Join(got, ", "))
	}
	return nil
}

func (c *checkoutTestContext) theServiceIs(name string) error {
	if got := c.session.Quote().ServiceName; got != name {
		return fmt.Errorf("expected service %q, got %q", name, got)
	}
	return nil
}

func (c *checkoutTestContext) theBookingFinalTotalIs(amount string) error {
	if c.err != nil {
		return fmt.Errorf("expected a booking but got error: %v", c.err)
	}
	return expectMoney("booking final total", amount, c.booking.FinalTotal)
}

func (c *checkoutTestContext) theSessionStateIs(state string) error {
	if got := string(c.session.State()); got != state {
		return fmt.Errorf("expected state %q, got %q", state, got)
	}
	return nil
}

func (c *checkoutTestContext) theCheckoutFailsWith(code string) error {
	if c.err == nil {
		return errors.New("expected commit to fail but it succeeded")
	}
	if !pkgerrors.IsCode(c.err, pkgerrors.Code(code)) {
		return fmt.Errorf("expected code %s, got %v", code, c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the clinic catalog$`, tc.theClinicCatalog)
	ctx.Step(`^a checkout for "([^"]*)"$`, tc.aCheckoutFor)

	// When steps
	ctx.Step(`^I select the service "([^"]*)"$`, tc.iSelectTheService)
	ctx.Step(`^I set product (\d+) to quantity (\d+)$`, tc.iSetProductToQuantity)
	ctx.Step(`^I accept upsell rule (\d+)$`, tc.iAcceptUpsellRule)
	ctx.Step(`^I decline upsell rule (\d+)$`, tc.iDeclineUpsellRule)
	ctx.Step(`^I accept the downsell$`, tc.iAcceptTheDownsell)
	ctx.Step(`^I select the time slot "([^"]*)"$`, tc.iSelectTheTimeSlot)
	ctx.Step(`^(\d+) seconds pass$`, tc.secondsPass)
	ctx.Step(`^I commit the checkout$`, tc.iCommitTheCheckout)

	// Then steps
	ctx.Step(`^the upsell offers are rules ([\d, ]+)$`, tc.theUpsellOffersAreRules)
	ctx.Step(`^downsell rule (\d+) is offered$`, tc.downsellRuleIsOffered)
	ctx.Step(`^no downsell is offered$`, tc.noDownsellIsOffered)
	ctx.Step(`^the cart subtotal is ([\d.]+)$`, tc.theCartSubtotalIs)
	ctx.Step(`^the final total is ([\d.]+)$`, tc.theFinalTotalIs)
	ctx.Step(`^the payment plan fee is ([\d.]+)$`, tc.thePaymentPlanFeeIs)
	ctx.Step(`^the total savings are ([\d.]+)$`, tc.theTotalSavingsAre)
	ctx.Step(`^the installments are ([\d., ]+)$`, tc.theInstallmentsAre)
	ctx.Step(`^the service is "([^"]*)"$`, tc.theServiceIs)
	ctx.Step(`^the booking final total is ([\d.]+)$`, tc.theBookingFinalTotalIs)
	ctx.Step(`^the session state is "([^"]*)"$`, tc.theSessionStateIs)
	ctx.Step(`^the checkout fails with "([^"]*)"$`, tc.theCheckoutFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
