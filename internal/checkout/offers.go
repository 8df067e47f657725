package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/downsell"
	"github.com/angelmondragon/clinic-checkout/internal/paymentplan"
	"github.com/angelmondragon/clinic-checkout/internal/upsell"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
	"github.com/angelmondragon/clinic-checkout/pkg/metrics"
)

func (s *Session) cartContext() upsell.CartContext {
	products := make(map[int]int, len(s.products))
	for _, p := range s.products {
		products[p.id] = p.quantity
	}
	return upsell.CartContext{
		Service:   s.service,
		Products:  products,
		Bundles:   append([]int(nil), s.bundles...),
		CartValue: s.totals().CartSubtotal,
	}
}

func containsRule(list []upsell.Suggestion, ruleID int) bool {
	for _, s := range list {
		if s.RuleID == ruleID {
			return true
		}
	}
	return false
}

// showUpsells evaluates placement and replaces the current batch unless
// every result was already answered. Every returned suggestion counts as
// displayed, including ones re-shown from the previous batch.
func (s *Session) showUpsells(ctx context.Context, placement enums.UpsellPlacement) {
	suggestions := s.upsells.Evaluate(s.cat.UpsellRules, s.cartContext(), placement, s.cat, s.displayCounts)

	fresh := make([]upsell.Suggestion, 0, len(suggestions))
	for _, sug := range suggestions {
		if containsRule(s.acceptedUpsells, sug.RuleID) || containsRule(s.declinedUpsells, sug.RuleID) {
			continue
		}
		fresh = append(fresh, sug)
	}
	if len(fresh) == 0 {
		return
	}

	for _, sug := range fresh {
		s.displayCounts[sug.RuleID]++
		s.shownUpsells = append(s.shownUpsells, sug)
		s.log.Info(s.log.WithRuleID(ctx, sug.RuleID), "checkout.upsell.shown")
	}
	s.metrics.AddSuggestions(metrics.EngineUpsell, metrics.OutcomeShown, len(fresh))
	s.currentUpsells = fresh
}

// RequestUpsells evaluates a placement such as pre_payment and returns the
// current batch.
func (s *Session) RequestUpsells(ctx context.Context, placement enums.UpsellPlacement) ([]upsell.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if !placement.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown upsell placement")
	}
	ctx = s.scope(ctx)
	s.showUpsells(ctx, placement)
	s.refresh(ctx)
	return append([]upsell.Suggestion(nil), s.currentUpsells...), nil
}

// CurrentUpsells returns the outstanding upsell batch.
func (s *Session) CurrentUpsells() []upsell.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]upsell.Suggestion(nil), s.currentUpsells...)
}

// CurrentDownsell returns the outstanding downsell offer, or nil.
func (s *Session) CurrentDownsell() *downsell.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentDownsell == nil {
		return nil
	}
	cur := *s.currentDownsell
	return &cur
}

func (s *Session) takeUpsell(ruleID int) (upsell.Suggestion, error) {
	if len(s.currentUpsells) == 0 {
		return upsell.Suggestion{}, pkgerrors.New(pkgerrors.CodeStateConflict, "no upsell outstanding")
	}
	for _, sug := range s.currentUpsells {
		if sug.RuleID == ruleID {
			return sug, nil
		}
	}
	return upsell.Suggestion{}, pkgerrors.New(pkgerrors.CodeNotFound, "upsell not in current batch")
}

func (s *Session) dropFromBatch(ruleID int) {
	kept := s.currentUpsells[:0]
	for _, sug := range s.currentUpsells {
		if sug.RuleID != ruleID {
			kept = append(kept, sug)
		}
	}
	s.currentUpsells = kept
}

// AcceptUpsell applies the offered item to the cart.
func (s *Session) AcceptUpsell(ctx context.Context, ruleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	sug, err := s.takeUpsell(ruleID)
	if err != nil {
		return err
	}
	ctx = s.scope(ctx)

	switch offer := sug.Offer.(type) {
	case catalog.AddonOffer:
		err = s.setProduct(offer.ProductID, s.productQuantity(offer.ProductID)+1)
	case catalog.QuantityBumpOffer:
		err = s.setProduct(offer.ProductID, s.productQuantity(offer.ProductID)+1)
	case catalog.BundleUpsellOffer:
		err = s.addBundle(offer.BundleID)
	case catalog.UpgradeOffer:
		svc, ok := s.cat.Service(offer.ServiceID)
		if !ok {
			err = pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
			break
		}
		s.setService(ctx, svc)
	}
	if err != nil {
		return err
	}

	s.acceptedUpsells = append(s.acceptedUpsells, sug)
	s.dropFromBatch(ruleID)
	s.metrics.IncSuggestion(metrics.EngineUpsell, metrics.OutcomeAccepted)
	s.log.Info(s.log.WithRuleID(ctx, ruleID), "checkout.upsell.accepted")
	s.cartChanged(ctx)
	return nil
}

// DeclineUpsell records the decline and raises an upsell_declined downsell.
func (s *Session) DeclineUpsell(ctx context.Context, ruleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	sug, err := s.takeUpsell(ruleID)
	if err != nil {
		return err
	}
	ctx = s.scope(ctx)

	s.declinedUpsells = append(s.declinedUpsells, sug)
	s.dropFromBatch(ruleID)
	s.metrics.IncSuggestion(metrics.EngineUpsell, metrics.OutcomeDeclined)
	s.log.Info(s.log.WithRuleID(ctx, ruleID), "checkout.upsell.declined")

	s.raiseDownsell(ctx, enums.DownsellTriggerUpsellDeclined, &sug)
	s.refresh(ctx)
	return nil
}

// raiseDownsell evaluates trigger and holds the result as the current
// offer. It reports whether an offer was raised; nothing is raised while
// another offer is outstanding.
func (s *Session) raiseDownsell(ctx context.Context, trigger enums.DownsellTrigger, declined *upsell.Suggestion) bool {
	if s.currentDownsell != nil {
		return false
	}
	t := s.totals()
	dctx := downsell.Context{CartValue: t.CartSubtotal}
	if s.service != nil {
		original := t.OriginalServicePrice
		dctx.OriginalPrice = &original
	}
	if declined != nil {
		id := declined.ItemID
		price := declined.OriginalPrice
		dctx.LastDeclinedItemType = enums.DeclinedItemType(declined.ItemType)
		dctx.LastDeclinedItemID = &id
		dctx.OriginalPrice = &price
	}

	sug := downsell.Evaluate(s.cat.DownsellRules, dctx, trigger, s.cat.PaymentPlans, s.cat.ScaledOffers, s.shownDownsellIDs)
	if sug == nil {
		s.log.Debug(s.log.WithField(ctx, "trigger", string(trigger)), "checkout.downsell.none")
		return false
	}
	if res, ok := sug.Resolution.(downsell.ScaledOfferResolution); ok && declined == nil && res.Offer.OriginalItemType == enums.ScaledItemTypeBundle {
		sug.Resolution = downsell.ScaledResolution(res.Offer, s.bundleFinal(res.Offer.OriginalItemID))
	}

	s.shownDownsellIDs[sug.RuleID] = struct{}{}
	s.shownDownsells = append(s.shownDownsells, *sug)
	s.currentDownsell = sug
	s.metrics.IncSuggestion(metrics.EngineDownsell, metrics.OutcomeShown)
	ctx = s.log.WithField(s.log.WithRuleID(ctx, sug.RuleID), "trigger", string(trigger))
	s.log.Info(ctx, "checkout.downsell.shown")
	return true
}

// bundleFinal returns the discounted price of a selected bundle, or nil.
func (s *Session) bundleFinal(bundleID int) *decimal.Decimal {
	if !s.hasBundle(bundleID) {
		return nil
	}
	for _, b := range s.totals().Bundles {
		if b.ID == bundleID {
			final := b.Price.Final
			return &final
		}
	}
	return nil
}

// AcceptDownsell applies the outstanding offer.
func (s *Session) AcceptDownsell(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	cur := s.currentDownsell
	if cur == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no downsell outstanding")
	}
	ctx = s.log.WithRuleID(s.scope(ctx), cur.RuleID)

	cartChanged := false
	switch res := cur.Resolution.(type) {
	case downsell.PaymentPlanResolution:
		s.plan = &SelectedPaymentPlan{PlanID: res.Plan.ID, PlanName: res.Plan.Name, Schedule: res.Schedule}
	case downsell.ScaledOfferResolution:
		if err := s.applyScaledOffer(ctx, res); err != nil {
			return err
		}
		cartChanged = true
	case downsell.TrialCreditResolution:
		ruleID := cur.RuleID
		s.issued = append(s.issued, catalog.UpgradeCredit{
			ID:           uuid.New(),
			PatientName:  s.patient,
			Amount:       res.Amount,
			Description:  res.Description,
			CreatedAt:    s.clock.Now(),
			SourceRuleID: &ruleID,
		})
	}

	s.acceptedDownsells = append(s.acceptedDownsells, *cur)
	s.currentDownsell = nil
	s.metrics.IncSuggestion(metrics.EngineDownsell, metrics.OutcomeAccepted)
	s.log.Info(ctx, "checkout.downsell.accepted")
	if cartChanged {
		s.cartChanged(ctx)
	} else {
		s.refresh(ctx)
	}
	return nil
}

func (s *Session) applyScaledOffer(ctx context.Context, res downsell.ScaledOfferResolution) error {
	offer := res.Offer
	record := &AcceptedScaledOffer{
		ScaledOfferID:    offer.ID,
		Name:             offer.Name,
		Description:      offer.Description,
		OriginalItemType: offer.OriginalItemType,
		OriginalItemID:   offer.OriginalItemID,
		OriginalItemName: offer.OriginalItemName,
		RemovedFeatures:  offer.RemovedFeatures,
		NewPrice:         res.NewPrice,
	}

	switch offer.OriginalItemType {
	case enums.ScaledItemTypeService:
		record.OriginalPrice = s.totals().OriginalServicePrice
		if res.OriginalPrice != nil {
			record.OriginalPrice = *res.OriginalPrice
		}
		s.setService(ctx, catalog.Service{Name: offer.Name, Price: res.NewPrice})
	case enums.ScaledItemTypeBundle:
		if err := s.addBundle(offer.OriginalItemID); err != nil {
			return err
		}
		if res.OriginalPrice != nil {
			record.OriginalPrice = *res.OriginalPrice
		} else if final := s.bundleFinal(offer.OriginalItemID); final != nil {
			record.OriginalPrice = *final
		}
	}
	s.scaled = record
	return nil
}

// DeclineDownsell records the decline. No further offer is forced.
func (s *Session) DeclineDownsell(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	cur := s.currentDownsell
	if cur == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no downsell outstanding")
	}
	ctx = s.log.WithRuleID(s.scope(ctx), cur.RuleID)

	s.declinedDownsells = append(s.declinedDownsells, *cur)
	s.currentDownsell = nil
	s.metrics.IncSuggestion(metrics.EngineDownsell, metrics.OutcomeDeclined)
	s.log.Info(ctx, "checkout.downsell.declined")
	s.refresh(ctx)
	return nil
}

// RemovePaymentPlan drops the selected plan, if any.
func (s *Session) RemovePaymentPlan(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if s.plan == nil {
		return nil
	}
	s.plan = nil
	ctx = s.scope(ctx)
	s.log.Info(ctx, "checkout.payment_plan.removed")
	s.refresh(ctx)
	return nil
}

// recomputePlan rebuilds the selected schedule on the amount due after
// credits and drops a plan that no longer qualifies.
func (s *Session) recomputePlan(ctx context.Context, total decimal.Decimal) {
	if s.plan == nil {
		return
	}
	plan, ok := s.cat.PaymentPlan(s.plan.PlanID)
	if !ok || !paymentplan.Eligible(plan, total) {
		s.log.Info(s.log.WithField(ctx, "plan_id", s.plan.PlanID), "checkout.payment_plan.dropped")
		s.plan = nil
		return
	}
	s.plan = &SelectedPaymentPlan{PlanID: plan.ID, PlanName: plan.Name, Schedule: paymentplan.BuildSchedule(plan, total)}
}

// checkCartValue raises the cart_value_threshold downsell once per session,
// as soon as an active rule's threshold is met.
func (s *Session) checkCartValue(ctx context.Context, subtotal decimal.Decimal) {
	if s.cartValueFired || !subtotal.IsPositive() {
		return
	}
	if !s.hasCartValueRule(subtotal) {
		return
	}
	if s.raiseDownsell(ctx, enums.DownsellTriggerCartValueThreshold, nil) {
		s.cartValueFired = true
	}
}

func (s *Session) hasCartValueRule(subtotal decimal.Decimal) bool {
	for _, rule := range s.cat.DownsellRules {
		if !rule.Active {
			continue
		}
		for _, cond := range rule.Conditions {
			if cond.TriggerType != enums.DownsellTriggerCartValueThreshold {
				continue
			}
			if cond.MinCartValue == nil || !subtotal.LessThan(*cond.MinCartValue) {
				return true
			}
		}
	}
	return false
}
