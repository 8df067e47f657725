package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/internal/pricing"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
)

// Booking is the priced result of a committed checkout, handed to the
// appointment and credit stores.
type Booking struct {
	SessionID        uuid.UUID                 `json:"session_id"`
	PatientName      string                    `json:"patient_name"`
	TimeSlot         string                    `json:"time_slot"`
	ServiceName      string                    `json:"service_name"`
	Price            decimal.Decimal           `json:"price"`
	Products         []ProductLine             `json:"products"`
	ProductTotal     decimal.Decimal           `json:"product_total"`
	Bundles          []SelectedBundle          `json:"bundles,omitempty"`
	AppliedDiscounts []pricing.AppliedDiscount `json:"applied_discounts,omitempty"`
	OriginalTotal    decimal.Decimal           `json:"original_total"`
	FinalTotal       decimal.Decimal           `json:"final_total"`
	DueToday         decimal.Decimal           `json:"due_today"`
	TotalSavings     decimal.Decimal           `json:"total_savings"`
	PaymentPlanFee   decimal.Decimal           `json:"payment_plan_fee"`
	PaymentPlan      *SelectedPaymentPlan      `json:"payment_plan,omitempty"`
	ScaledOffer      *AcceptedScaledOffer      `json:"scaled_offer,omitempty"`
	AppliedCredits   []catalog.UpgradeCredit   `json:"applied_credits,omitempty"`
	IssuedCredits    []catalog.UpgradeCredit   `json:"issued_credits,omitempty"`
	UpsellTracking   UpsellTracking            `json:"upsell_tracking"`
	DownsellTracking *DownsellTracking         `json:"downsell_tracking,omitempty"`
	BookedAt         time.Time                 `json:"booked_at"`
}

// AssignAppointment ties the applied credits to the stored appointment.
func (b *Booking) AssignAppointment(appointmentID int) {
	for i := range b.AppliedCredits {
		id := appointmentID
		b.AppliedCredits[i].AppliedAppointmentID = &id
	}
}

// Commit prices the cart and closes the session. A service and a time slot
// must be selected.
func (s *Session) Commit(ctx context.Context) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if s.service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service required")
	}
	if s.timeSlot == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "time slot required")
	}
	ctx = s.scope(ctx)

	q := s.totals()
	booking := &Booking{
		SessionID:        s.id,
		PatientName:      s.patient,
		TimeSlot:         s.timeSlot,
		ServiceName:      q.ServiceName,
		Price:            q.ServicePrice,
		Products:         q.Products,
		ProductTotal:     q.ProductTotal,
		Bundles:          q.Bundles,
		AppliedDiscounts: q.Discounts,
		OriginalTotal:    q.OriginalTotal,
		FinalTotal:       q.FinalTotal,
		DueToday:         q.DueToday,
		TotalSavings:     q.TotalSavings,
		PaymentPlanFee:   q.PaymentPlanFee,
		PaymentPlan:      q.PaymentPlan,
		UpsellTracking: UpsellTracking{
			Shown:    s.shownUpsells,
			Accepted: s.acceptedUpsells,
			Declined: s.declinedUpsells,
		},
		BookedAt: s.clock.Now(),
	}
	if s.scaled != nil {
		scaled := *s.scaled
		booking.ScaledOffer = &scaled
	}
	if q.CreditsApplied.IsPositive() {
		for _, c := range q.CreditsToApply {
			c.Redeemed = true
			booking.AppliedCredits = append(booking.AppliedCredits, c)
		}
	}
	if len(s.issued) > 0 {
		booking.IssuedCredits = append([]catalog.UpgradeCredit(nil), s.issued...)
	}
	tracking := DownsellTracking{
		Shown:    s.shownDownsells,
		Accepted: s.acceptedDownsells,
		Declined: s.declinedDownsells,
	}
	if !tracking.empty() {
		booking.DownsellTracking = &tracking
	}

	s.hesitation.cancel()
	s.closed = enums.CheckoutStateBooked
	s.metrics.ObserveBooking(q.FinalTotal.InexactFloat64())
	s.log.Info(s.log.WithAmounts(ctx, map[string]decimal.Decimal{
		"final_total":   q.FinalTotal,
		"due_today":     q.DueToday,
		"total_savings": q.TotalSavings,
	}), "checkout.booked")
	return booking, nil
}
