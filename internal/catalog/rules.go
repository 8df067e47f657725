package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

// UpsellCondition is one clause of an upsell rule. All clauses of a rule
// must match.
type UpsellCondition struct {
	TriggerType     enums.UpsellTriggerType `json:"trigger_type" validate:"enum"`
	ServiceID       *int                    `json:"service_id,omitempty"`
	ServiceName     string                  `json:"service_name,omitempty"`
	ProductID       *int                    `json:"product_id,omitempty"`
	ProductCategory string                  `json:"product_category,omitempty"`
	BundleID        *int                    `json:"bundle_id,omitempty"`
	MinCartValue    *decimal.Decimal        `json:"min_cart_value,omitempty" validate:"omitempty,gte=0"`
}

type UpsellRule struct {
	ID                    int                     `json:"id" validate:"gt=0"`
	Name                  string                  `json:"name" validate:"required"`
	Description           string                  `json:"description,omitempty"`
	Active                bool                    `json:"active"`
	Priority              int                     `json:"priority"`
	Conditions            []UpsellCondition       `json:"conditions" validate:"dive"`
	Offer                 UpsellOffer             `json:"-"`
	Placement             []enums.UpsellPlacement `json:"placement" validate:"min=1,dive,enum"`
	OriginalPrice         *decimal.Decimal        `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	DiscountedPrice       *decimal.Decimal        `json:"discounted_price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercentage    *decimal.Decimal        `json:"discount_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	IncrementalPrice      *decimal.Decimal        `json:"incremental_price,omitempty" validate:"omitempty,gte=0"`
	Headline              string                  `json:"headline" validate:"required"`
	Subheadline           string                  `json:"subheadline,omitempty"`
	Badge                 string                  `json:"badge,omitempty"`
	MaxDisplaysPerSession int                     `json:"max_displays_per_session,omitempty" validate:"gte=0"`
	OnlyShowOnce          bool                    `json:"only_show_once,omitempty"`
}

// HasPlacement reports whether the rule is tagged for placement.
func (r UpsellRule) HasPlacement(placement enums.UpsellPlacement) bool {
	for _, p := range r.Placement {
		if p == placement {
			return true
		}
	}
	return false
}

func (r *UpsellRule) UnmarshalJSON(data []byte) error {
	type alias UpsellRule
	aux := struct {
		*alias
		upsellOfferFields
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	offer, err := aux.upsellOfferFields.offer()
	if err != nil {
		return fmt.Errorf("upsell rule %d: %w", r.ID, err)
	}
	r.Offer = offer
	return nil
}

func (r UpsellRule) MarshalJSON() ([]byte, error) {
	type alias UpsellRule
	return json.Marshal(struct {
		alias
		upsellOfferFields
	}{alias(r), flattenUpsellOffer(r.Offer)})
}

// DownsellCondition is one clause of a downsell rule, keyed by trigger.
type DownsellCondition struct {
	TriggerType      enums.DownsellTrigger  `json:"trigger_type" validate:"enum"`
	DeclinedItemType enums.DeclinedItemType `json:"declined_item_type,omitempty" validate:"omitempty,enum"`
	DeclinedItemID   *int                   `json:"declined_item_id,omitempty"`
	MinCartValue     *decimal.Decimal       `json:"min_cart_value,omitempty" validate:"omitempty,gte=0"`
}

type DownsellRule struct {
	ID           int                 `json:"id" validate:"gt=0"`
	Name         string              `json:"name" validate:"required"`
	Description  string              `json:"description,omitempty"`
	Active       bool                `json:"active"`
	Priority     int                 `json:"priority"`
	Conditions   []DownsellCondition `json:"conditions" validate:"dive"`
	Offer        DownsellOffer       `json:"-"`
	Headline     string              `json:"headline" validate:"required"`
	Subheadline  string              `json:"subheadline,omitempty"`
	OnlyShowOnce bool                `json:"only_show_once,omitempty"`
}

// HasTrigger reports whether any condition of the rule names trigger.
func (r DownsellRule) HasTrigger(trigger enums.DownsellTrigger) bool {
	for _, c := range r.Conditions {
		if c.TriggerType == trigger {
			return true
		}
	}
	return false
}

func (r *DownsellRule) UnmarshalJSON(data []byte) error {
	type alias DownsellRule
	aux := struct {
		*alias
		downsellOfferFields
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	offer, err := aux.downsellOfferFields.offer()
	if err != nil {
		return fmt.Errorf("downsell rule %d: %w", r.ID, err)
	}
	r.Offer = offer
	return nil
}

func (r DownsellRule) MarshalJSON() ([]byte, error) {
	type alias DownsellRule
	return json.Marshal(struct {
		alias
		downsellOfferFields
	}{alias(r), flattenDownsellOffer(r.Offer)})
}
