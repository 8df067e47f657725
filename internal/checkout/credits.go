package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
)

func (s *Session) availableCredits() []catalog.UpgradeCredit {
	return s.cat.CreditsFor(s.patient, s.clock.Now())
}

// qualifiesForCredits reports whether the cart is an upgrade purchase: a
// package or bundle service, or any selected bundle.
func (s *Session) qualifiesForCredits() bool {
	if s.service == nil {
		return false
	}
	return catalog.IsUpgradePurchase(s.service.Name) || len(s.bundles) > 0
}

// creditsToApply returns the explicit selection when one was made, and
// otherwise every eligible credit while the cart qualifies.
func (s *Session) creditsToApply(subtotal decimal.Decimal) []catalog.UpgradeCredit {
	available := s.availableCredits()
	if s.overridden {
		var selected []catalog.UpgradeCredit
		for _, c := range available {
			for _, id := range s.creditOverride {
				if c.ID == id {
					selected = append(selected, c)
					break
				}
			}
		}
		return selected
	}
	if !s.qualifiesForCredits() || !subtotal.IsPositive() || len(available) == 0 {
		return nil
	}
	return available
}

// SetCreditsToApply replaces the automatic credit selection. An empty list
// applies no credits.
func (s *Session) SetCreditsToApply(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}

	available := s.availableCredits()
	selected := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		found := false
		for _, c := range available {
			if c.ID == id {
				found = true
				break
			}
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "credit not available").
				WithDetails(map[string]any{"credit_id": id.String()})
		}
		selected = append(selected, id)
	}

	s.creditOverride = selected
	s.overridden = true
	ctx = s.scope(ctx)
	s.log.Info(s.log.WithField(ctx, "credits", len(selected)), "checkout.credits.selected")
	s.refresh(ctx)
	return nil
}

// ResetCreditSelection returns to automatic credit selection.
func (s *Session) ResetCreditSelection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.creditOverride = nil
	s.overridden = false
	s.refresh(s.scope(ctx))
	return nil
}
