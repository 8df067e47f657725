package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

// hesitationTimer is the cancellable idle callback behind the
// checkout_hesitation trigger. The token identifies the live timer so a
// callback from a replaced timer is ignored.
type hesitationTimer struct {
	timer    Timer
	token    uint64
	armedFor string
	// spentFor is the subtotal of a fire that raised nothing; the timer
	// stays disarmed until the subtotal moves.
	spentFor string
}

func (h *hesitationTimer) cancel() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.armedFor = ""
}

func (s *Session) hesitationEligible(subtotal decimal.Decimal) bool {
	if s.closed != "" || s.hesitationFired || !subtotal.IsPositive() {
		return false
	}
	if s.timeSlot != "" || s.currentDownsell != nil {
		return false
	}
	for _, rule := range s.cat.DownsellRules {
		if rule.Active && rule.HasTrigger(enums.DownsellTriggerCheckoutHesitation) {
			return true
		}
	}
	return false
}

// armHesitation keeps the timer in step with its preconditions. It is
// restarted when the subtotal changes and cancelled when a precondition
// fails.
func (s *Session) armHesitation(subtotal decimal.Decimal) {
	if !s.hesitationEligible(subtotal) {
		s.hesitation.cancel()
		s.hesitation.spentFor = ""
		return
	}
	key := subtotal.String()
	if s.hesitation.timer != nil && s.hesitation.armedFor == key {
		return
	}
	if s.hesitation.timer == nil && s.hesitation.spentFor == key {
		return
	}

	s.hesitation.cancel()
	s.hesitation.spentFor = ""
	s.hesitation.token++
	token := s.hesitation.token
	s.hesitation.armedFor = key
	s.hesitation.timer = s.clock.AfterFunc(s.opts.HesitationDelay, func() {
		s.fireHesitation(token)
	})
}

func (s *Session) fireHesitation(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.hesitation.token || s.hesitation.timer == nil || s.closed != "" {
		return
	}
	key := s.hesitation.armedFor
	s.hesitation.timer = nil
	s.hesitation.armedFor = ""

	ctx := s.baseCtx
	if !s.raiseDownsell(ctx, enums.DownsellTriggerCheckoutHesitation, nil) {
		s.hesitation.spentFor = key
		s.log.Debug(ctx, "checkout.hesitation.idle")
		return
	}
	s.hesitationFired = true
	s.metrics.IncHesitationFired()
	s.log.Info(ctx, "checkout.hesitation.fired")
}
