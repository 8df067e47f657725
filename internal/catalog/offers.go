package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

// UpsellOffer is the item an upsell rule puts in front of the patient.
// Exactly one variant is attached to each rule.
type UpsellOffer interface {
	OfferType() enums.UpsellOfferType
	ItemType() enums.OfferedItemType
	ItemID() int
	ItemName() string
	isUpsellOffer()
}

// AddonOffer suggests a product that is not yet in the cart.
type AddonOffer struct {
	ProductID int
	Name      string
}

func (AddonOffer) OfferType() enums.UpsellOfferType { return enums.UpsellOfferTypeAddon }
func (AddonOffer) ItemType() enums.OfferedItemType  { return enums.OfferedItemTypeProduct }
func (o AddonOffer) ItemID() int                    { return o.ProductID }
func (o AddonOffer) ItemName() string               { return o.Name }
func (AddonOffer) isUpsellOffer()                   {}

// QuantityBumpOffer suggests one more unit of a product.
type QuantityBumpOffer struct {
	ProductID int
	Name      string
}

func (QuantityBumpOffer) OfferType() enums.UpsellOfferType {
	return enums.UpsellOfferTypeQuantityBump
}
func (QuantityBumpOffer) ItemType() enums.OfferedItemType { return enums.OfferedItemTypeProduct }
func (o QuantityBumpOffer) ItemID() int                   { return o.ProductID }
func (o QuantityBumpOffer) ItemName() string              { return o.Name }
func (QuantityBumpOffer) isUpsellOffer()                  {}

// BundleUpsellOffer suggests selecting a bundle.
type BundleUpsellOffer struct {
	BundleID int
	Name     string
}

func (BundleUpsellOffer) OfferType() enums.UpsellOfferType {
	return enums.UpsellOfferTypeBundleUpsell
}
func (BundleUpsellOffer) ItemType() enums.OfferedItemType { return enums.OfferedItemTypeBundle }
func (o BundleUpsellOffer) ItemID() int                   { return o.BundleID }
func (o BundleUpsellOffer) ItemName() string              { return o.Name }
func (BundleUpsellOffer) isUpsellOffer()                  {}

// UpgradeOffer suggests swapping the selected service for a better one.
type UpgradeOffer struct {
	ServiceID int
	Name      string
}

func (UpgradeOffer) OfferType() enums.UpsellOfferType { return enums.UpsellOfferTypeUpgrade }
func (UpgradeOffer) ItemType() enums.OfferedItemType  { return enums.OfferedItemTypeService }
func (o UpgradeOffer) ItemID() int                    { return o.ServiceID }
func (o UpgradeOffer) ItemName() string               { return o.Name }
func (UpgradeOffer) isUpsellOffer()                   {}

// upsellOfferFields is the flat wire shape of an upsell offer.
type upsellOfferFields struct {
	OfferType       enums.UpsellOfferType `json:"offer_type"`
	OfferedItemType enums.OfferedItemType `json:"offered_item_type"`
	OfferedItemID   int                   `json:"offered_item_id"`
	OfferedItemName string                `json:"offered_item_name"`
}

func (f upsellOfferFields) offer() (UpsellOffer, error) {
	want := map[enums.UpsellOfferType]enums.OfferedItemType{
		enums.UpsellOfferTypeAddon:        enums.OfferedItemTypeProduct,
		enums.UpsellOfferTypeQuantityBump: enums.OfferedItemTypeProduct,
		enums.UpsellOfferTypeBundleUpsell: enums.OfferedItemTypeBundle,
		enums.UpsellOfferTypeUpgrade:      enums.OfferedItemTypeService,
	}
	itemType, ok := want[f.OfferType]
	if !ok {
		return nil, fmt.Errorf("unsupported upsell offer type %q", f.OfferType)
	}
	if f.OfferedItemType != itemType {
		return nil, fmt.Errorf("upsell offer type %q cannot offer item type %q", f.OfferType, f.OfferedItemType)
	}
	switch f.OfferType {
	case enums.UpsellOfferTypeAddon:
		return AddonOffer{ProductID: f.OfferedItemID, Name: f.OfferedItemName}, nil
	case enums.UpsellOfferTypeQuantityBump:
		return QuantityBumpOffer{ProductID: f.OfferedItemID, Name: f.OfferedItemName}, nil
	case enums.UpsellOfferTypeBundleUpsell:
		return BundleUpsellOffer{BundleID: f.OfferedItemID, Name: f.OfferedItemName}, nil
	default:
		return UpgradeOffer{ServiceID: f.OfferedItemID, Name: f.OfferedItemName}, nil
	}
}

func flattenUpsellOffer(o UpsellOffer) upsellOfferFields {
	if o == nil {
		return upsellOfferFields{}
	}
	return upsellOfferFields{
		OfferType:       o.OfferType(),
		OfferedItemType: o.ItemType(),
		OfferedItemID:   o.ItemID(),
		OfferedItemName: o.ItemName(),
	}
}

// DownsellOffer is the retention offer a downsell rule resolves to.
type DownsellOffer interface {
	OfferType() enums.DownsellOfferType
	isDownsellOffer()
}

// PaymentPlanOffer splits the cart total using a catalog payment plan.
type PaymentPlanOffer struct {
	PlanID int
}

func (PaymentPlanOffer) OfferType() enums.DownsellOfferType { return enums.DownsellOfferTypePaymentPlan }
func (PaymentPlanOffer) isDownsellOffer()                   {}

// ScaledOfferOffer substitutes a catalog scaled offer.
type ScaledOfferOffer struct {
	OfferID int
}

func (ScaledOfferOffer) OfferType() enums.DownsellOfferType { return enums.DownsellOfferTypeScaledOffer }
func (ScaledOfferOffer) isDownsellOffer()                   {}

// TrialCreditOffer issues account credit for a later visit.
type TrialCreditOffer struct {
	Amount      decimal.Decimal
	Description string
}

func (TrialCreditOffer) OfferType() enums.DownsellOfferType { return enums.DownsellOfferTypeTrialCredit }
func (TrialCreditOffer) isDownsellOffer()                   {}

type downsellOfferFields struct {
	OfferType              enums.DownsellOfferType `json:"offer_type"`
	PaymentPlanID          *int                    `json:"payment_plan_id,omitempty"`
	ScaledOfferID          *int                    `json:"scaled_offer_id,omitempty"`
	TrialCreditAmount      *decimal.Decimal        `json:"trial_credit_amount,omitempty"`
	TrialCreditDescription string                  `json:"trial_credit_description,omitempty"`
}

func (f downsellOfferFields) offer() (DownsellOffer, error) {
	switch f.OfferType {
	case enums.DownsellOfferTypePaymentPlan:
		if f.PaymentPlanID == nil {
			return nil, fmt.Errorf("payment_plan offer requires payment_plan_id")
		}
		return PaymentPlanOffer{PlanID: *f.PaymentPlanID}, nil
	case enums.DownsellOfferTypeScaledOffer:
		if f.ScaledOfferID == nil {
			return nil, fmt.Errorf("scaled_offer offer requires scaled_offer_id")
		}
		return ScaledOfferOffer{OfferID: *f.ScaledOfferID}, nil
	case enums.DownsellOfferTypeTrialCredit:
		offer := TrialCreditOffer{Description: f.TrialCreditDescription}
		if f.TrialCreditAmount != nil {
			offer.Amount = *f.TrialCreditAmount
		}
		return offer, nil
	}
	return nil, fmt.Errorf("unsupported downsell offer type %q", f.OfferType)
}

func flattenDownsellOffer(o DownsellOffer) downsellOfferFields {
	switch v := o.(type) {
	case PaymentPlanOffer:
		id := v.PlanID
		return downsellOfferFields{OfferType: v.OfferType(), PaymentPlanID: &id}
	case ScaledOfferOffer:
		id := v.OfferID
		return downsellOfferFields{OfferType: v.OfferType(), ScaledOfferID: &id}
	case TrialCreditOffer:
		amount := v.Amount
		return downsellOfferFields{
			OfferType:              v.OfferType(),
			TrialCreditAmount:      &amount,
			TrialCreditDescription: v.Description,
		}
	}
	return downsellOfferFields{}
}
