package variant

import (
	"errors"

	"github.com/storekart/variant-service/internal/pkg/cuid2"
)

// ErrInvalidPackQuantity is returned when the multiplier is below 1.
// Callers validate the quantity before invoking the builder; the guard here
// only prevents a zero division if they don't.
var ErrInvalidPackQuantity = errors.New("pack quantity must be at least 1")

// BuildPack derives a pack variant from a base variant and a multiplier
// quantity. The pack copies the base's descriptive fields, scales prices up
// by the quantity and divides stock-style fields down (floor). A fresh link
// id is generated and shared: the base is mutated in place only to carry
// that link, its own pricing and stock are unchanged.
func BuildPack(base *Variant, packQuantity int) (Variant, error) {
	if base == nil {
		return Variant{}, errors.New("base variant is nil")
	}
	if packQuantity < 1 {
		return Variant{}, ErrInvalidPackQuantity
	}

	link := cuid2.NewLinkID()
	base.Link = link

	pack := *base
	pack.ID = cuid2.NewVariantID()
	pack.Link = link
	pack.IsPack = true
	pack.PackQty = packQuantity
	pack.OptionValueIDs = append([]string(nil), base.OptionValueIDs...)

	q := float64(packQuantity)
	pack.Price = base.Price * q
	pack.MRP = base.MRP * q
	pack.CSP = base.CSP * q
	pack.StockQuantity = base.StockQuantity / packQuantity
	pack.MaxPurchaseLimit = base.MaxPurchaseLimit / packQuantity
	pack.Threshold = base.Threshold / packQuantity

	recordPackBuilt()
	return pack, nil
}
