// Package checkout sequences the pricing, upsell and downsell engines over
// a single patient checkout and produces the priced booking.
package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/downsell"
	"github.com/angelmondragon/clinic-checkout/internal/upsell"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
	"github.com/angelmondragon/clinic-checkout/pkg/logger"
	"github.com/angelmondragon/clinic-checkout/pkg/metrics"
)

type productSelection struct {
	id       int
	quantity int
}

// Session holds the cart and interaction trackers of one checkout. Every
// method is safe for concurrent use; events are applied one at a time.
type Session struct {
	mu sync.Mutex

	id      uuid.UUID
	cat     *catalog.Catalog
	patient string
	opts    Options
	log     *logger.Logger
	metrics *metrics.CheckoutMetrics
	clock   Clock
	upsells *upsell.Engine
	baseCtx context.Context

	closed enums.CheckoutState

	service  *catalog.Service
	products []productSelection
	bundles  []int
	timeSlot string

	scaled *AcceptedScaledOffer
	plan   *SelectedPaymentPlan
	issued []catalog.UpgradeCredit

	creditOverride []uuid.UUID
	overridden     bool

	shownUpsells    []upsell.Suggestion
	acceptedUpsells []upsell.Suggestion
	declinedUpsells []upsell.Suggestion
	displayCounts   map[int]int
	currentUpsells  []upsell.Suggestion

	shownDownsells    []downsell.Suggestion
	acceptedDownsells []downsell.Suggestion
	declinedDownsells []downsell.Suggestion
	shownDownsellIDs  map[int]struct{}
	currentDownsell   *downsell.Suggestion

	cartValueFired  bool
	hesitationFired bool
	hesitation      hesitationTimer
}

func NewSession(params SessionParams) (*Session, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog required")
	}
	if params.PatientName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient name required")
	}
	if params.Clock == nil {
		params.Clock = realClock{}
	}
	opts := params.Options.withDefaults()

	s := &Session{
		id:               uuid.New(),
		cat:              params.Catalog,
		patient:          params.PatientName,
		opts:             opts,
		log:              params.Logger,
		metrics:          params.Metrics,
		clock:            params.Clock,
		upsells:          upsell.NewEngine(opts.UpsellLimit),
		displayCounts:    map[int]int{},
		shownDownsellIDs: map[int]struct{}{},
	}
	s.baseCtx = s.scope(context.Background())
	s.log.Info(s.baseCtx, "checkout.started")
	return s, nil
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// State reports where the session is in the checkout flow.
func (s *Session) State() enums.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() enums.CheckoutState {
	switch {
	case s.closed != "":
		return s.closed
	case s.currentDownsell != nil:
		return enums.CheckoutStateAwaitingDownsellResponse
	case len(s.currentUpsells) > 0:
		return enums.CheckoutStateAwaitingUpsellResponse
	}
	return enums.CheckoutStateBrowsing
}

func (s *Session) scope(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = s.log.WithSessionID(ctx, s.id.String())
	return s.log.WithPatient(ctx, s.patient)
}

func (s *Session) ensureOpen() error {
	if s.closed != "" {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout session is "+string(s.closed))
	}
	return nil
}

// SelectService replaces the selected service with the catalog service id.
func (s *Session) SelectService(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	svc, ok := s.cat.Service(id)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	ctx = s.scope(ctx)
	s.setService(ctx, svc)
	s.cartChanged(ctx)
	return nil
}

func (s *Session) SelectServiceByName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	svc, ok := s.cat.ServiceByName(name)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	ctx = s.scope(ctx)
	s.setService(ctx, svc)
	s.cartChanged(ctx)
	return nil
}

// setService selects svc and drops a scaled service substitution that no
// longer matches the selection.
func (s *Session) setService(ctx context.Context, svc catalog.Service) {
	s.service = &svc
	if s.scaled != nil && s.scaled.OriginalItemType == enums.ScaledItemTypeService && s.scaled.Name != svc.Name {
		s.log.Debug(ctx, "checkout.scaled_offer.invalidated")
		s.scaled = nil
	}
}

// SetProductQuantity sets the quantity of a product. Zero or less removes it.
func (s *Session) SetProductQuantity(ctx context.Context, productID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := s.setProduct(productID, quantity); err != nil {
		return err
	}
	s.cartChanged(s.scope(ctx))
	return nil
}

func (s *Session) setProduct(productID, quantity int) error {
	if quantity <= 0 {
		for i, p := range s.products {
			if p.id == productID {
				s.products = append(s.products[:i], s.products[i+1:]...)
				break
			}
		}
		return nil
	}

	product, ok := s.cat.Product(productID)
	if !ok || !product.Available() {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not available")
	}
	if product.TrackStock && quantity > product.StockLevel {
		return pkgerrors.New(pkgerrors.CodeConflict, "quantity exceeds stock").
			WithDetails(map[string]any{"product_id": productID, "stock_level": product.StockLevel})
	}
	for i, p := range s.products {
		if p.id == productID {
			s.products[i].quantity = quantity
			return nil
		}
	}
	s.products = append(s.products, productSelection{id: productID, quantity: quantity})
	return nil
}

func (s *Session) productQuantity(productID int) int {
	for _, p := range s.products {
		if p.id == productID {
			return p.quantity
		}
	}
	return 0
}

func (s *Session) SelectBundle(ctx context.Context, bundleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := s.addBundle(bundleID); err != nil {
		return err
	}
	s.cartChanged(s.scope(ctx))
	return nil
}

func (s *Session) addBundle(bundleID int) error {
	bundle, ok := s.cat.Bundle(bundleID)
	if !ok || !bundle.Active {
		return pkgerrors.New(pkgerrors.CodeNotFound, "bundle not available")
	}
	if !s.hasBundle(bundleID) {
		s.bundles = append(s.bundles, bundleID)
	}
	return nil
}

func (s *Session) hasBundle(bundleID int) bool {
	for _, id := range s.bundles {
		if id == bundleID {
			return true
		}
	}
	return false
}

func (s *Session) RemoveBundle(ctx context.Context, bundleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	idx := -1
	for i, id := range s.bundles {
		if id == bundleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "bundle not selected")
	}
	ctx = s.scope(ctx)
	s.bundles = append(s.bundles[:idx], s.bundles[idx+1:]...)
	if s.scaled != nil && s.scaled.OriginalItemType == enums.ScaledItemTypeBundle && s.scaled.OriginalItemID == bundleID {
		s.log.Debug(ctx, "checkout.scaled_offer.invalidated")
		s.scaled = nil
	}
	s.cartChanged(ctx)
	return nil
}

func (s *Session) SelectTimeSlot(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if slot == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "time slot required")
	}
	s.timeSlot = slot
	s.refresh(s.scope(ctx))
	return nil
}

func (s *Session) ClearTimeSlot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.timeSlot = ""
	s.refresh(s.scope(ctx))
	return nil
}

// Abandon cancels the pending hesitation timer and closes the session.
func (s *Session) Abandon(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.hesitation.cancel()
	s.closed = enums.CheckoutStateAbandoned
	s.log.Info(s.scope(ctx), "checkout.abandoned")
	return nil
}

// cartChanged runs after the service, products or bundles change.
func (s *Session) cartChanged(ctx context.Context) {
	if s.service != nil {
		s.showUpsells(ctx, enums.UpsellPlacementAfterService)
	}
	s.refresh(ctx)
}

// refresh re-derives the payment plan, the one-shot triggers and the
// hesitation timer from the current state.
func (s *Session) refresh(ctx context.Context) {
	t := s.totals()
	s.recomputePlan(ctx, t.SubtotalAfterCredits)
	s.checkCartValue(ctx, t.CartSubtotal)
	s.armHesitation(t.CartSubtotal)
}
