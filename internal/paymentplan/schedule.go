// Package paymentplan turns a payment plan and a cart total into an
// installment schedule whose amounts sum to the total exactly.
package paymentplan

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

type Installment struct {
	DueLabel    string          `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Schedule is derived from a plan and never edited by hand.
type Schedule struct {
	PlanID        int              `json:"plan_id"`
	PlanName      string           `json:"plan_name"`
	Installments  []Installment    `json:"installments"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	DueToday      decimal.Decimal  `json:"due_today"`
	ProcessingFee *decimal.Decimal `json:"processing_fee,omitempty"`
}

// Sum adds up the installment amounts.
func (s Schedule) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range s.Installments {
		total = total.Add(inst.Amount)
	}
	return total
}

// Eligible reports whether plan can be offered against total.
func Eligible(plan catalog.PaymentPlan, total decimal.Decimal) bool {
	if !plan.Active {
		return false
	}
	return plan.MinCartValue == nil || !total.LessThan(*plan.MinCartValue)
}

// BuildSchedule applies the plan's processing fee to total and splits the
// result into installments. The last installment absorbs the rounding
// remainder.
func BuildSchedule(plan catalog.PaymentPlan, total decimal.Decimal) Schedule {
	fee := decimal.Zero
	if plan.ProcessingFeePercentage != nil {
		fee = money.Round2(money.PercentOf(total, *plan.ProcessingFeePercentage))
	}
	grand := money.Round2(total.Add(fee))

	count := max(plan.InstallmentCount, 1)
	amounts := money.ReconcileInstallments(grand, count)
	installments := make([]Installment, count)
	for i, amount := range amounts {
		label, description := dueLabel(plan, i, count)
		installments[i] = Installment{DueLabel: label, Amount: amount, Description: description}
	}

	schedule := Schedule{
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		Installments: installments,
		TotalAmount:  grand,
		DueToday:     installments[0].Amount,
	}
	if fee.IsPositive() {
		schedule.ProcessingFee = &fee
	}
	return schedule
}

func dueLabel(plan catalog.PaymentPlan, i, count int) (string, string) {
	switch {
	case i == 0:
		return "Today", "Initial payment"
	case plan.Type == enums.PaymentPlanTypeHalfNowHalfLater && count == 2:
		return "In 30 days", "Final payment"
	}
	return fmt.Sprintf("In %d days", 30*i), fmt.Sprintf("Payment %d of %d", i+1, count)
}
