package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	"github.com/angelmondragon/clinic-checkout/pkg/money"
)

// Product is a retail item that can be added to a checkout cart.
type Product struct {
	ID           int             `json:"id" validate:"gt=0"`
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Category     string          `json:"category,omitempty"`
	StockLevel   int             `json:"stock_level"`
	ReorderPoint int             `json:"reorder_point"`
	Active       bool            `json:"active"`
	TrackStock   bool            `json:"track_stock"`
}

// Available reports whether the product can be sold right now.
func (p Product) Available() bool {
	if !p.Active {
		return false
	}
	return !p.TrackStock || p.StockLevel > 0
}

// Service is a bookable clinic treatment.
type Service struct {
	ID       int             `json:"id" validate:"gte=0"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Category string          `json:"category,omitempty"`
}

// UnmarshalJSON accepts the price as a number, a numeric string or a display
// string such as "£220.00".
func (s *Service) UnmarshalJSON(data []byte) error {
	type alias Service
	aux := struct {
		*alias
		Price json.RawMessage `json:"price"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	price, err := decodePrice(aux.Price)
	if err != nil {
		return fmt.Errorf("service %q: %w", s.Name, err)
	}
	s.Price = price
	return nil
}

func decodePrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}
	if raw[0] == '"' {
		var display string
		if err := json.Unmarshal(raw, &display); err != nil {
			return decimal.Zero, err
		}
		return money.ParsePrice(display)
	}
	return decimal.NewFromString(string(raw))
}

// BundleItem is one component of a bundle.
type BundleItem struct {
	Kind     enums.ItemKind `json:"type" validate:"enum"`
	ID       int            `json:"id" validate:"gte=0"`
	Name     string         `json:"name"`
	Quantity int            `json:"quantity" validate:"gt=0"`
}

// Bundle groups services and products under a single discount. FinalPrice,
// when set, takes precedence over DiscountType and DiscountValue.
type Bundle struct {
	ID            int                      `json:"id" validate:"gt=0"`
	Name          string                   `json:"name" validate:"required"`
	Description   string                   `json:"description,omitempty"`
	Items         []BundleItem             `json:"items" validate:"min=1,dive"`
	DiscountType  enums.BundleDiscountType `json:"discount_type" validate:"enum"`
	DiscountValue decimal.Decimal          `json:"discount_value" validate:"gte=0"`
	FinalPrice    *decimal.Decimal         `json:"final_price,omitempty" validate:"omitempty,gte=0"`
	Active        bool                     `json:"active"`
	Category      string                   `json:"category,omitempty"`
}

// BXGYRule is a buy X get Y promotion.
type BXGYRule struct {
	ID            int                  `json:"id" validate:"gt=0"`
	Name          string               `json:"name" validate:"required"`
	Description   string               `json:"description,omitempty"`
	Active        bool                 `json:"active"`
	BuyQuantity   int                  `json:"buy_quantity" validate:"gt=0"`
	BuyItemType   enums.BuyItemType    `json:"buy_item_type" validate:"enum"`
	BuyItemID     *int                 `json:"buy_item_id,omitempty"`
	BuyCategory   string               `json:"buy_category,omitempty"`
	RuleType      enums.BXGYRuleType   `json:"rule_type" validate:"enum"`
	GetQuantity   int                  `json:"get_quantity" validate:"gt=0"`
	GetItemType   enums.ItemKind       `json:"get_item_type,omitempty" validate:"omitempty,enum"`
	GetItemID     *int                 `json:"get_item_id,omitempty"`
	GetCategory   string               `json:"get_category,omitempty"`
	DiscountValue decimal.Decimal      `json:"discount_value" validate:"gte=0"`
	TargetType    enums.BXGYTargetType `json:"target_type" validate:"enum"`
}

// PaymentPlan splits a checkout total into installments.
type PaymentPlan struct {
	ID                      int                   `json:"id" validate:"gt=0"`
	Name                    string                `json:"name" validate:"required"`
	Type                    enums.PaymentPlanType `json:"type" validate:"enum"`
	Description             string                `json:"description,omitempty"`
	InstallmentCount        int                   `json:"installment_count" validate:"gte=1"`
	MinCartValue            *decimal.Decimal      `json:"min_cart_value,omitempty" validate:"omitempty,gte=0"`
	ProcessingFeePercentage *decimal.Decimal      `json:"processing_fee_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Active                  bool                  `json:"active"`
}

// ScaledOffer is a reduced feature, reduced price substitute for a service
// or bundle.
type ScaledOffer struct {
	ID               int                  `json:"id" validate:"gt=0"`
	Name             string               `json:"name" validate:"required"`
	Description      string               `json:"description,omitempty"`
	OriginalItemType enums.ScaledItemType `json:"original_item_type" validate:"enum"`
	OriginalItemID   int                  `json:"original_item_id"`
	OriginalItemName string               `json:"original_item_name"`
	ReducedPrice     decimal.Decimal      `json:"reduced_price" validate:"gte=0"`
	RemovedFeatures  []string             `json:"removed_features,omitempty"`
	Active           bool                 `json:"active"`
}

// UpgradeCredit is account credit owed to a patient. It is redeemed in full
// against a single booking.
type UpgradeCredit struct {
	ID                   uuid.UUID       `json:"id"`
	PatientName          string          `json:"patient_name" validate:"required"`
	Amount               decimal.Decimal `json:"amount" validate:"gte=0"`
	Description          string          `json:"description,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	ExpiresAt            *time.Time      `json:"expires_at,omitempty"`
	Redeemed             bool            `json:"redeemed"`
	SourceRuleID         *int            `json:"source_rule_id,omitempty"`
	AppliedAppointmentID *int            `json:"applied_appointment_id,omitempty"`
}

// Eligible reports whether the credit can be applied for patient at now.
func (c UpgradeCredit) Eligible(patient string, now time.Time) bool {
	if c.Redeemed || c.PatientName != patient {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}

// IsUpgradePurchase reports whether a service name marks a package purchase.
func IsUpgradePurchase(serviceName string) bool {
	name := strings.ToLower(serviceName)
	return strings.Contains(name, "package") || strings.Contains(name, "bundle")
}
