// Package catalog holds the read-only snapshot of products, services,
// promotions and retention offers that every checkout evaluation runs
// against.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
)

// Catalog is a snapshot supplied by the caller. Engines never mutate it.
type Catalog struct {
	Products      []Product       `json:"products" validate:"dive"`
	Services      []Service       `json:"services" validate:"dive"`
	Bundles       []Bundle        `json:"bundles" validate:"dive"`
	BXGYRules     []BXGYRule      `json:"bxgy_rules" validate:"dive"`
	UpsellRules   []UpsellRule    `json:"upsell_rules" validate:"dive"`
	DownsellRules []DownsellRule  `json:"downsell_rules" validate:"dive"`
	PaymentPlans  []PaymentPlan   `json:"payment_plans" validate:"dive"`
	ScaledOffers  []ScaledOffer   `json:"scaled_offers" validate:"dive"`
	Credits       []UpgradeCredit `json:"credits" validate:"dive"`
}

// Load decodes a JSON catalog document and validates it.
func Load(r io.Reader) (*Catalog, error) {
	var cat Catalog
	if err := json.NewDecoder(r).Decode(&cat); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode catalog").WithDetails(map[string]any{"error": err.Error()})
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func (c *Catalog) Product(id int) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c *Catalog) Service(id int) (Service, bool) {
	for _, s := range c.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

func (c *Catalog) ServiceByName(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

func (c *Catalog) Bundle(id int) (Bundle, bool) {
	for _, b := range c.Bundles {
		if b.ID == id {
			return b, true
		}
	}
	return Bundle{}, false
}

func (c *Catalog) UpsellRule(id int) (UpsellRule, bool) {
	for _, r := range c.UpsellRules {
		if r.ID == id {
			return r, true
		}
	}
	return UpsellRule{}, false
}

func (c *Catalog) PaymentPlan(id int) (PaymentPlan, bool) {
	for _, p := range c.PaymentPlans {
		if p.ID == id {
			return p, true
		}
	}
	return PaymentPlan{}, false
}

func (c *Catalog) ScaledOffer(id int) (ScaledOffer, bool) {
	for _, o := range c.ScaledOffers {
		if o.ID == id {
			return o, true
		}
	}
	return ScaledOffer{}, false
}

// ItemPrice returns the unit price of a bundle item. Product items resolve
// by id. Service items resolve by id and fall back to name.
func (c *Catalog) ItemPrice(item BundleItem) (decimal.Decimal, bool) {
	switch item.Kind {
	case enums.ItemKindProduct:
		if p, ok := c.Product(item.ID); ok {
			return p.Price, true
		}
	case enums.ItemKindService:
		if item.ID > 0 {
			if s, ok := c.Service(item.ID); ok {
				return s.Price, true
			}
		}
		if s, ok := c.ServiceByName(item.Name); ok {
			return s.Price, true
		}
	}
	return decimal.Zero, false
}

// CreditsFor returns the credits patient can apply at now, soonest expiry
// first and then oldest first.
func (c *Catalog) CreditsFor(patient string, now time.Time) []UpgradeCredit {
	var credits []UpgradeCredit
	for _, credit := range c.Credits {
		if credit.Eligible(patient, now) {
			credits = append(credits, credit)
		}
	}
	sort.SliceStable(credits, func(i, j int) bool {
		a, b := credits[i], credits[j]
		switch {
		case a.ExpiresAt != nil && b.ExpiresAt != nil:
			return a.ExpiresAt.Before(*b.ExpiresAt)
		case a.ExpiresAt != nil:
			return true
		case b.ExpiresAt != nil:
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return credits
}
