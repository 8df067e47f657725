// Package pricing computes bundle prices and buy X get Y discounts over a
// flat cart. Every function is pure.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/clinic-checkout/internal/catalog"
	"github.com/angelmondragon/clinic-checkout/pkg/enums"
)

const serviceCategory = "Services"

// CartLine is one priced entry of the cart. Price is the unit price.
type CartLine struct {
	Kind     enums.ItemKind  `json:"type"`
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Category string          `json:"category,omitempty"`
}

// Total returns price × quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func ServiceLine(service catalog.Service) CartLine {
	return CartLine{
		Kind:     enums.ItemKindService,
		ID:       service.ID,
		Name:     service.Name,
		Price:    service.Price,
		Quantity: 1,
		Category: serviceCategory,
	}
}

func ProductLine(product catalog.Product, quantity int) CartLine {
	return CartLine{
		Kind:     enums.ItemKindProduct,
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: quantity,
		Category: product.Category,
	}
}
