package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
	"github.com/angelmondragon/clinic-checkout/pkg/validation"
)

var validate = validation.New()

// Validate checks field constraints on every entity plus the references
// between them. All failures are reported together.
func (c *Catalog) Validate() error {
	var errs error

	if err := validate.Struct(c); err != nil {
		errs = multierr.Append(errs, fieldErrors(err))
	}

	errs = multierr.Append(errs, duplicateIDs("products", len(c.Products), func(i int) int { return c.Products[i].ID }))
	errs = multierr.Append(errs, duplicateIDs("services", len(c.Services), func(i int) int { return c.Services[i].ID }))
	errs = multierr.Append(errs, duplicateIDs("bundles", len(c.Bundles), func(i int) int { return c.Bundles[i].ID }))
	errs = multierr.Append(errs, duplicateIDs("bxgy_rules", len(c.BXGYRules), func(i int) int { return c.BXGYRules[i].ID }))
	errs = multierr.Append(errs, duplicateIDs("upsell_rules", len(c.UpsellRules), func(i int) int { return c.UpsellRules[i].ID }))
	errs = multierr.Append(errs, duplicateIDs("downsell_rules", len(c.DownsellRules), func(i int) int { return c.DownsellRules[i].ID }))
	errs = multierr.Append(errs, duplicateIDs("payment_plans", len(c.PaymentPlans), func(i int) int { return c.PaymentPlans[i].ID }))
	errs = multierr.Append(errs, duplicateIDs("scaled_offers", len(c.ScaledOffers), func(i int) int { return c.ScaledOffers[i].ID }))

	for i, rule := range c.UpsellRules {
		if rule.Offer == nil {
			errs = multierr.Append(errs, fmt.Errorf("upsell_rules[%d]: offer is required", i))
		}
	}
	for i, rule := range c.DownsellRules {
		errs = multierr.Append(errs, c.checkDownsellOffer(i, rule))
	}

	if errs == nil {
		return nil
	}
	failures := multierr.Errors(errs)
	details := make([]string, 0, len(failures))
	for _, failure := range failures {
		details = append(details, failure.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid catalog").WithDetails(details)
}

func (c *Catalog) checkDownsellOffer(i int, rule DownsellRule) error {
	switch offer := rule.Offer.(type) {
	case nil:
		return fmt.Errorf("downsell_rules[%d]: offer is required", i)
	case PaymentPlanOffer:
		if _, ok := c.PaymentPlan(offer.PlanID); !ok {
			return fmt.Errorf("downsell_rules[%d]: unknown payment plan %d", i, offer.PlanID)
		}
	case ScaledOfferOffer:
		if _, ok := c.ScaledOffer(offer.OfferID); !ok {
			return fmt.Errorf("downsell_rules[%d]: unknown scaled offer %d", i, offer.OfferID)
		}
	}
	return nil
}

func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs error
	for _, fe := range verrs {
		errs = multierr.Append(errs, fmt.Errorf("%s %s", strings.TrimPrefix(fe.Namespace(), "Catalog."), validation.Message(fe)))
	}
	return errs
}

// duplicateIDs reports ids used more than once. Zero ids are unassigned and
// ignored.
func duplicateIDs(kind string, n int, id func(int) int) error {
	seen := make(map[int]struct{}, n)
	var errs error
	for i := 0; i < n; i++ {
		value := id(i)
		if value == 0 {
			continue
		}
		if _, ok := seen[value]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%s: duplicate id %d", kind, value))
			continue
		}
		seen[value] = struct{}{}
	}
	return errs
}
